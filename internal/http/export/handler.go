package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/findash/internal/export"
	"github.com/MrJamesThe3rd/findash/internal/http/respond"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.exportCSV)
}

// exportCSV renders into a buffer first so a failure can still be answered
// with a JSON error instead of a truncated attachment.
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := transaction.ParseFilter(q)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	cols, err := export.ParseColumns(q.Get("columns"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer

	if _, err := h.svc.WriteCSV(r.Context(), &buf, filter, transaction.ParsePage(q), cols); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
