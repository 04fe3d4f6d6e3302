package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/verdictio/lexcompare/internal/config"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// Checker verifies one dependency for the readiness probe.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers []Checker
	log      logging.Logger
}

func NewHealthHandler(log logging.Logger, checkers ...Checker) *HealthHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HealthHandler{checkers: checkers, log: log.Named("health")}
}

type healthResponse struct {
	Status     common.HealthStatus            `json:"status"`
	Version    string                         `json:"version"`
	Components map[string]common.HealthStatus `json:"components,omitempty"`
}

// Liveness reports that the process is up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, http.StatusOK, healthResponse{
		Status:  common.HealthUp,
		Version: config.Version,
	})
}

// Readiness runs every dependency check with a short deadline and reports
// per-component status.  Any failing component yields a 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:     common.HealthUp,
		Version:    config.Version,
		Components: make(map[string]common.HealthStatus, len(h.checkers)),
	}
	for _, c := range h.checkers {
		if err := c.Check(ctx); err != nil {
			h.log.Warn("readiness check failed",
				logging.String("component", c.Name), logging.Err(err))
			resp.Components[c.Name] = common.HealthDown
			resp.Status = common.HealthDown
			continue
		}
		resp.Components[c.Name] = common.HealthUp
	}

	status := http.StatusOK
	if resp.Status != common.HealthUp {
		status = http.StatusServiceUnavailable
	}
	writeData(w, r, status, resp)
}
