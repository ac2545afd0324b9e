package handlers

import (
	"context"
	"net/http"

	"github.com/bobmcallan/toolbridge/internal/common"
)

// EnginePinger reports whether the tool engine is reachable.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// EngineHealthHandler reports the health of the upstream tool engine.
type EngineHealthHandler struct {
	logger *common.Logger
	engine EnginePinger
}

// NewEngineHealthHandler creates a new engine health handler.
func NewEngineHealthHandler(logger *common.Logger, engine EnginePinger) *EngineHealthHandler {
	return &EngineHealthHandler{logger: logger, engine: engine}
}

// ServeHTTP handles GET /api/engine-health.
func (h *EngineHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if err := h.engine.Ping(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("engine health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "down",
			"error":  err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
