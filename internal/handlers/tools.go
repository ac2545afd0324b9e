package handlers

import (
	"net/http"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/bobmcallan/toolbridge/internal/mcp"
)

// SkippedTool is an enabled tool that could not be described to clients.
type SkippedTool struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ToolsResponse is the body of GET /api/tools.
type ToolsResponse struct {
	Enabled int            `json:"enabled"`
	Count   int            `json:"count"`
	Tools   []mcp.Manifest `json:"tools"`
	Skipped []SkippedTool  `json:"skipped"`
}

// ToolsHandler lists the tools a client would currently see from tools/list,
// along with any enabled tool that was left out and why.
type ToolsHandler struct {
	logger *common.Logger
	source interfaces.ToolSource
	author string
}

// NewToolsHandler creates a new tool catalog handler.
func NewToolsHandler(logger *common.Logger, source interfaces.ToolSource, author string) *ToolsHandler {
	return &ToolsHandler{logger: logger, source: source, author: author}
}

// ServeHTTP handles GET /api/tools.
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	raw, err := h.source.Tools(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load tool configuration")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reg, err := mcp.BuildRegistry(raw, mcp.WithAuthor(h.author))
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	results := mcp.TranslateTools(reg.Definitions())
	resp := ToolsResponse{
		Enabled: reg.Len(),
		Tools:   mcp.Manifests(results),
		Skipped: []SkippedTool{},
	}
	for _, res := range results {
		if res.Err != nil {
			resp.Skipped = append(resp.Skipped, SkippedTool{Name: res.Name, Error: res.Err.Error()})
		}
	}
	resp.Count = len(resp.Tools)

	WriteJSON(w, http.StatusOK, resp)
}
