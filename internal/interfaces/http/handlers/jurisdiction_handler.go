package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/verdictio/lexcompare/internal/domain/jurisdiction"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
)

// JurisdictionHandler serves the per-state conveyancing rule reference data.
type JurisdictionHandler struct {
	provider jurisdiction.Provider
	log      logging.Logger
}

func NewJurisdictionHandler(provider jurisdiction.Provider, log logging.Logger) *JurisdictionHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &JurisdictionHandler{provider: provider, log: log.Named("jurisdiction-handler")}
}

// List returns the known state codes.
func (h *JurisdictionHandler) List(w http.ResponseWriter, r *http.Request) {
	states, err := h.provider.States(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, states)
}

// Get returns the rule bundle for one state.
func (h *JurisdictionHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(chi.URLParam(r, "state"))
	rules, err := h.provider.RulesFor(r.Context(), state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, rules)
}
