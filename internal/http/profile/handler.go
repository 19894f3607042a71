package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
	"github.com/MrJamesThe3rd/findash/internal/auth"
	"github.com/MrJamesThe3rd/findash/internal/http/respond"
	"github.com/MrJamesThe3rd/findash/internal/user"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type profileResponse struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
	Phone       string `json:"phone"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("http.profile", "Unauthorized: No token provided", nil))
		return
	}

	p, err := h.svc.Profile(r.Context(), id.UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, profileResponse{
		Name:        p.Name,
		Email:       p.Email,
		Designation: p.Designation,
		Phone:       p.Phone,
	})
}
