package importfile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
	"github.com/MrJamesThe3rd/findash/internal/http/respond"
	"github.com/MrJamesThe3rd/findash/internal/importer"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import", h.importFile)
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(w, r, apperr.Validation("http.import", "Invalid Input: expected a multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, apperr.Validation("http.import", "Invalid Input: file field is required"))
		return
	}
	defer file.Close()

	name := r.FormValue("format")
	if name == "" {
		name = header.Filename
	}

	format, ok := importer.ParseFormat(name)
	if !ok {
		respond.Error(w, r, apperr.Validation("http.import", "Invalid Input: format must be json or csv"))
		return
	}

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{Imported: len(txs)})
}
