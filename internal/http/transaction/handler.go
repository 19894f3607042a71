package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/findash/internal/http/respond"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := transaction.ParseFilter(q)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), filter, transaction.ParsePage(q))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toListResponse(res))
}
