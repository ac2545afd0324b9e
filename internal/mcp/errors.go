package mcp

import (
	"github.com/cockroachdb/errors"
)

// JSON-RPC error codes specific to the tool bridge. Standard codes come from
// mcp-go (mcp.PARSE_ERROR, mcp.INVALID_REQUEST).
const (
	// CodeToolOperation covers every failure while listing or calling tools.
	CodeToolOperation = -32000
	// CodeUnsupportedMethod is returned for methods the bridge does not route.
	CodeUnsupportedMethod = -32001
)

var (
	// ErrMalformedConfig marks a tool record or parameter schema that cannot be read.
	ErrMalformedConfig = errors.New("malformed tool configuration")
	// ErrUnknownTool marks a tools/call naming a tool that is not enabled.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrToolInvocation marks a failure reported by the tool engine.
	ErrToolInvocation = errors.New("tool invocation failed")
	// ErrManifestTranslation marks a tool whose parameters cannot be described as JSON Schema.
	ErrManifestTranslation = errors.New("manifest translation failed")
)

func malformed(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrMalformedConfig)
}

func untranslatable(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrManifestTranslation)
}
