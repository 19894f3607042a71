package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
	"github.com/MrJamesThe3rd/findash/internal/auth"
	"github.com/MrJamesThe3rd/findash/internal/http/middleware"
	"github.com/MrJamesThe3rd/findash/internal/http/respond"
)

type Handler struct {
	svc          *auth.Service
	secureCookie bool
}

func NewHandler(svc *auth.Service, secureCookie bool) *Handler {
	return &Handler{svc: svc, secureCookie: secureCookie}
}

// Routes registers signup and login, which need no session.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
}

// SessionRoutes registers the routes that act on the caller's own session.
// They must be mounted behind middleware.OptionalAuth so a stale cookie can
// still be cleared.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.Post("/logout", h.logout)
}

type signupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Designation string `json:"designation"`
	Phone       string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.svc.Signup(r.Context(), auth.SignupParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Designation: req.Designation,
		Phone:       req.Phone,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.setCookie(w, session)
	respond.JSON(w, http.StatusCreated, sessionResponse{Message: "Signup Successful!", Token: session.Token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.svc.Login(r.Context(), auth.LoginParams{Email: req.Email, Password: req.Password})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.setCookie(w, session)
	respond.JSON(w, http.StatusOK, sessionResponse{Message: "Login successful", Token: session.Token})
}

// logout always clears the session cookie. The token is revoked only when it
// is still valid; an expired or forged token has nothing left to revoke.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	if id, ok := auth.IdentityFrom(r.Context()); ok {
		if err := h.svc.Logout(r.Context(), id); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	respond.Message(w, http.StatusOK, "Logged out")
}

func (h *Handler) setCookie(w http.ResponseWriter, s *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.Identity.ExpiresAt,
		MaxAge:   int(time.Until(s.Identity.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("http.decode", "Invalid Input: malformed JSON body")
	}

	return nil
}
