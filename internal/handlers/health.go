package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
)

// healthCheckKey is read, never written, to confirm the session store answers.
const healthCheckKey = "__toolbridge_health__"

// HealthHandler reports liveness along with the session store backend.
// A store that cannot answer a read makes the service unhealthy, since every
// MCP reply is delivered through it.
type HealthHandler struct {
	logger  *common.Logger
	backend string
	store   interfaces.KeyValueStorage
}

// NewHealthHandler creates a new health handler. store may be nil.
func NewHealthHandler(logger *common.Logger, backend string, store interfaces.KeyValueStorage) *HealthHandler {
	if backend == "" {
		backend = "memory"
	}
	return &HealthHandler{logger: logger, backend: backend, store: store}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := h.store.Get(ctx, healthCheckKey); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			if h.logger != nil {
				h.logger.Warn().Str("storage", h.backend).Err(err).Msg("session store health check failed")
			}
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "degraded",
				"storage": h.backend,
				"error":   err.Error(),
			})
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": h.backend,
	})
}
