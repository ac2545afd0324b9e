package mcp

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxBodySize caps a single JSON-RPC request body (1MB).
const maxBodySize = 1 << 20

// Handler is the HTTP handler for the MCP endpoint. It accepts POSTed
// JSON-RPC messages, answers 202, and leaves the response in the session
// store. Streaming over GET is not offered.
type Handler struct {
	dispatcher *Dispatcher
	source     interfaces.ToolSource
	logger     *common.Logger
}

// NewHandler creates the MCP endpoint handler.
func NewHandler(dispatcher *Dispatcher, source interfaces.ToolSource, logger *common.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		source:     source,
		logger:     logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		writeEnvelope(w, http.StatusMethodNotAllowed, SSEUnsupportedError())
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil || len(body) > maxBodySize {
		h.logger.Warn().Int("bytes", len(body)).Msg("rejecting unreadable or oversized MCP request body")
		writeEnvelope(w, http.StatusBadRequest,
			mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.INVALID_REQUEST, "Request body too large or unreadable", nil))
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	out := h.dispatcher.Dispatch(r.Context(), sessionID, body, h.source)

	switch out.Status {
	case http.StatusAccepted:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
	case http.StatusInternalServerError:
		writeEnvelope(w, out.Status,
			mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.INTERNAL_ERROR, "Failed to deliver response", nil))
	default:
		writeEnvelope(w, out.Status, out.Envelope)
	}
}

func writeEnvelope(w http.ResponseWriter, status int, env any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
