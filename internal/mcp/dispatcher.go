package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/mark3labs/mcp-go/mcp"
)

// Outcome reports what Dispatch did with a request.
type Outcome struct {
	// Status is the HTTP status the transport should answer with.
	Status int
	// Envelope is the JSON-RPC response, or nil for notifications.
	Envelope any
	// Stored is true when Envelope was written to the session store.
	Stored bool
}

// Dispatcher routes JSON-RPC requests and delivers each response
// asynchronously through the session store rather than the HTTP reply.
type Dispatcher struct {
	identity ServerIdentity
	author   string
	bridge   *Bridge
	store    interfaces.ResponseStore
	logger   *common.Logger
}

// NewDispatcher creates a Dispatcher. author is stamped on every tool identity.
func NewDispatcher(identity ServerIdentity, author string, bridge *Bridge, store interfaces.ResponseStore, logger *common.Logger) *Dispatcher {
	return &Dispatcher{
		identity: identity,
		author:   author,
		bridge:   bridge,
		store:    store,
		logger:   logger,
	}
}

// Dispatch handles one POSTed body for sessionID. Tool records are read from
// source only when the method needs them.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID string, body []byte, source interfaces.ToolSource) Outcome {
	if sessionID == "" {
		env := mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.INVALID_REQUEST, "Missing session_id query parameter", nil)
		return Outcome{Status: http.StatusBadRequest, Envelope: env}
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		d.logger.Warn().Str("session_id", sessionID).Err(err).Msg("unparseable JSON-RPC body")
		env := mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.PARSE_ERROR, "Parse error", nil)
		return d.deliver(ctx, sessionID, env)
	}

	if req.Method == MethodNotificationInitialized {
		d.logger.Debug().Str("session_id", sessionID).Msg("client initialized")
		return Outcome{Status: http.StatusAccepted}
	}

	env := d.respond(ctx, req, source)
	return d.deliver(ctx, sessionID, env)
}

func (d *Dispatcher) respond(ctx context.Context, req Request, source interfaces.ToolSource) any {
	id := req.RequestID()
	switch req.Method {
	case string(mcp.MethodInitialize):
		return mcp.NewJSONRPCResultResponse(id, newInitializeResult(d.identity))

	case string(mcp.MethodToolsList):
		result, err := d.listTools(ctx, source)
		if err != nil {
			return toolError(id, err)
		}
		return mcp.NewJSONRPCResultResponse(id, result)

	case string(mcp.MethodToolsCall):
		result, err := d.callTool(ctx, req.Params, source)
		if err != nil {
			return toolError(id, err)
		}
		return mcp.NewJSONRPCResultResponse(id, result)

	default:
		return mcp.NewJSONRPCError(id, CodeUnsupportedMethod, fmt.Sprintf("Unsupported method: %s", req.Method), nil)
	}
}

func (d *Dispatcher) registry(ctx context.Context, source interfaces.ToolSource) (*Registry, error) {
	raw, err := source.Tools(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRegistry(raw, WithAuthor(d.author))
}

func (d *Dispatcher) listTools(ctx context.Context, source interfaces.ToolSource) (ListToolsResult, error) {
	reg, err := d.registry(ctx, source)
	if err != nil {
		return ListToolsResult{}, err
	}

	results := TranslateTools(reg.Definitions())
	for _, r := range results {
		if r.Err != nil {
			d.logger.Warn().Str("tool", r.Name).Err(r.Err).Msg("skipping tool that cannot be described")
		}
	}
	return ListToolsResult{Tools: Manifests(results)}, nil
}

func (d *Dispatcher) callTool(ctx context.Context, raw json.RawMessage, source interfaces.ToolSource) (CallResult, error) {
	reg, err := d.registry(ctx, source)
	if err != nil {
		return CallResult{}, err
	}

	var params CallParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return CallResult{}, err
		}
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	text, err := d.bridge.Call(ctx, reg, params.Name, params.Arguments)
	if err != nil {
		d.logger.Warn().Str("tool", params.Name).Err(err).Msg("tool call failed")
		return CallResult{}, err
	}
	return newCallResult(text), nil
}

// deliver writes env under sessionID and reports the transport status.
func (d *Dispatcher) deliver(ctx context.Context, sessionID string, env any) Outcome {
	data, err := json.Marshal(env)
	if err != nil {
		d.logger.Error().Str("session_id", sessionID).Err(err).Msg("failed to encode JSON-RPC response")
		return Outcome{Status: http.StatusInternalServerError, Envelope: env}
	}
	if err := d.store.Set(ctx, sessionID, data); err != nil {
		d.logger.Error().Str("session_id", sessionID).Err(err).Msg("failed to store JSON-RPC response")
		return Outcome{Status: http.StatusInternalServerError, Envelope: env}
	}
	return Outcome{Status: http.StatusAccepted, Envelope: env, Stored: true}
}

// toolError forwards err's message verbatim under the tool-operation code.
func toolError(id mcp.RequestId, err error) mcp.JSONRPCError {
	return mcp.NewJSONRPCError(id, CodeToolOperation, err.Error(), nil)
}
