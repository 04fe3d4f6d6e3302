package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appcmp "github.com/verdictio/lexcompare/internal/application/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/export"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
)

// ExportHandler renders comparison results into stored artifacts.
type ExportHandler struct {
	svc      *appcmp.Service
	exporter export.Service
	log      logging.Logger
}

func NewExportHandler(svc *appcmp.Service, exporter export.Service, log logging.Logger) *ExportHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ExportHandler{svc: svc, exporter: exporter, log: log.Named("export-handler")}
}

type exportRequest struct {
	Format  export.Format   `json:"format"`
	Options *export.Options `json:"options,omitempty"`
}

// Create exports a comparison in the requested format and returns the stored
// artifact descriptor.
func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "comparisonID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !req.Format.IsValid() {
		writeError(w, r, export.ErrUnsupportedFormat(req.Format))
		return
	}
	opts := export.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	cmp, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.exporter.Export(r.Context(), cmp, req.Format, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, result)
}
