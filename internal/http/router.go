package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/findash/internal/http/analytics"
	"github.com/MrJamesThe3rd/findash/internal/http/auth"
	"github.com/MrJamesThe3rd/findash/internal/http/export"
	"github.com/MrJamesThe3rd/findash/internal/http/importfile"
	authmw "github.com/MrJamesThe3rd/findash/internal/http/middleware"
	"github.com/MrJamesThe3rd/findash/internal/http/profile"
	"github.com/MrJamesThe3rd/findash/internal/http/respond"
	"github.com/MrJamesThe3rd/findash/internal/http/transaction"
)

type Handlers struct {
	Auth         *auth.Handler
	Profile      *profile.Handler
	Transactions *transaction.Handler
	Export       *export.Handler
	Import       *importfile.Handler
	Analytics    *analytics.Handler
}

func New(h Handlers, authenticator authmw.Authenticator, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.OptionalAuth(authenticator))
			h.Auth.SessionRoutes(r)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(authenticator))

		r.Route("/profile", h.Profile.Routes)

		r.Route("/transactions", func(r chi.Router) {
			h.Transactions.Routes(r)
			h.Export.Routes(r)
			h.Import.Routes(r)
		})

		r.Route("/analytics", h.Analytics.Routes)
	})

	return router
}
