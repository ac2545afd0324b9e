package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// MethodNotificationInitialized is the client's post-handshake notification.
const MethodNotificationInitialized = "notifications/initialized"

// sseUnsupportedMessage is returned for GET requests on the MCP endpoint.
const sseUnsupportedMessage = "Not support make use of Server-Sent Events (SSE) to stream multiple server messages."

// Request is an incoming JSON-RPC 2.0 request or notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// RequestID echoes the request's id exactly as sent. Numbers are not
// round-tripped through float64, so ids beyond 2^53 survive.
func (r Request) RequestID() mcp.RequestId {
	if len(r.ID) == 0 {
		return mcp.NewRequestId(nil)
	}
	return mcp.NewRequestId(r.ID)
}

// CallParams are the params of a tools/call request.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ProtocolVersion is the only MCP revision this adapter speaks.
const ProtocolVersion = "2024-11-05"

// ServerIdentity is reported as serverInfo during initialize.
type ServerIdentity struct {
	Name    string
	Version string
}

// InitializeResult always lists every capability flag, including false ones.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      mcp.Implementation `json:"serverInfo"`
}

type ServerCapabilities struct {
	Experimental map[string]any  `json:"experimental"`
	Prompts      ListChangedFlag `json:"prompts"`
	Resources    ResourcesFlags  `json:"resources"`
	Tools        ListChangedFlag `json:"tools"`
}

type ListChangedFlag struct {
	ListChanged bool `json:"listChanged"`
}

type ResourcesFlags struct {
	Subscribe   bool `json:"subscribe"`
	ListChanged bool `json:"listChanged"`
}

// ListToolsResult is the tools/list payload.
type ListToolsResult struct {
	Tools []Manifest `json:"tools"`
}

// CallResult is the tools/call payload. isError is always emitted.
type CallResult struct {
	Content []mcp.TextContent `json:"content"`
	IsError bool              `json:"isError"`
}

func newInitializeResult(id ServerIdentity) InitializeResult {
	return InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Experimental: map[string]any{},
		},
		ServerInfo: mcp.Implementation{Name: id.Name, Version: id.Version},
	}
}

func newCallResult(text string) CallResult {
	return CallResult{Content: []mcp.TextContent{mcp.NewTextContent(text)}}
}

// SSEUnsupportedError is the fixed envelope returned for GET /mcp.
func SSEUnsupportedError() mcp.JSONRPCError {
	return mcp.NewJSONRPCError(mcp.NewRequestId(nil), CodeToolOperation, sseUnsupportedMessage, nil)
}
