package mcp

import (
	"context"
	"maps"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/bobmcallan/toolbridge/internal/models"
	"github.com/cockroachdb/errors"
)

// Bridge forwards MCP tool calls to the tool engine. Each call is attempted
// exactly once.
type Bridge struct {
	engine interfaces.ToolEngine
	logger *common.Logger
}

// NewBridge creates a Bridge over engine.
func NewBridge(engine interfaces.ToolEngine, logger *common.Logger) *Bridge {
	return &Bridge{engine: engine, logger: logger}
}

// Call resolves name in reg and invokes it with args.
func (b *Bridge) Call(ctx context.Context, reg *Registry, name string, args map[string]any) (string, error) {
	def, ok := reg.Lookup(name)
	if !ok {
		return "", errors.Mark(errors.Newf("Unknown tool: %s", name), ErrUnknownTool)
	}
	return b.Invoke(ctx, def, args)
}

// Invoke runs def with args layered over its configured defaults and returns
// the flattened response text. Engine errors keep their original message.
func (b *Bridge) Invoke(ctx context.Context, def models.ToolDefinition, args map[string]any) (string, error) {
	inv := models.Invocation{
		ProviderKind: def.ProviderKind,
		Provider:     def.Provider,
		ToolName:     def.Name,
		Parameters:   MergeArguments(def.RuntimeParameters, args),
	}

	b.logger.Debug().
		Str("tool", def.Name).
		Str("provider", def.Provider).
		Str("provider_type", string(def.ProviderKind)).
		Int("params", len(inv.Parameters)).
		Msg("invoking tool")

	stream, err := b.engine.Invoke(ctx, inv)
	if err != nil {
		return "", errors.Mark(err, ErrToolInvocation)
	}

	var parts []models.MessagePart
	for part, err := range stream {
		if err != nil {
			return "", errors.Mark(err, ErrToolInvocation)
		}
		parts = append(parts, part)
	}

	b.logger.Debug().Str("tool", def.Name).Int("parts", len(parts)).Msg("tool invocation complete")
	return ResultText(parts), nil
}

// MergeArguments returns a copy of defaults overlaid by args. Neither input is
// modified.
func MergeArguments(defaults, args map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(args))
	maps.Copy(merged, defaults)
	maps.Copy(merged, args)
	return merged
}
