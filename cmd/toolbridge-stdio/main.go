// Command toolbridge-stdio serves the configured tools to a local MCP client
// over stdin/stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/config"
	"github.com/bobmcallan/toolbridge/internal/engine"
	"github.com/bobmcallan/toolbridge/internal/mcp"
	"github.com/bobmcallan/toolbridge/internal/settings"
)

func main() {
	configFile := flag.String("config", "toolbridge.toml", "Path to config file")
	flag.Parse()

	var paths []string
	if _, err := os.Stat(*configFile); err == nil {
		paths = append(paths, *configFile)
	}

	cfg, err := config.LoadFromFiles(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol
	logger := newStdioLogger(cfg.Logging, os.Stderr)

	source := settings.NewSource(cfg.Tools)
	bridge := mcp.NewBridge(engine.NewClient(cfg.Engine, logger), logger)

	mcpServer := server.NewMCPServer(
		cfg.MCP.ServerName,
		cfg.MCP.ServerVersion,
		server.WithToolCapabilities(true),
	)

	count, err := mcp.RegisterTools(context.Background(), mcpServer, source, bridge, cfg.MCP.Author, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to register tools: %v\n", err)
		os.Exit(1)
	}

	logger.Info().Int("tools", count).Str("engine", cfg.Engine.URL).Msg("serving MCP over stdio")

	if err := server.ServeStdio(mcpServer); err != nil {
		fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
		os.Exit(1)
	}
}

// newStdioLogger keeps log lines off stdout, which carries JSON-RPC frames.
// A console-only configuration logs plain text to stderr; otherwise console
// output is dropped and the remaining writers are kept.
func newStdioLogger(cfg common.LoggingConfig, stderr io.Writer) *common.Logger {
	if len(cfg.Outputs) > 0 && !slices.ContainsFunc(cfg.Outputs, func(o string) bool { return o != "console" }) {
		level := cfg.Level
		if level == "" {
			level = "info"
		}
		return common.NewLoggerWithOutput(level, stderr)
	}
	return common.NewLoggerFromConfig(stdioLogging(cfg))
}

// stdioLogging drops console output so log lines never interleave with
// JSON-RPC frames on stdout.
func stdioLogging(cfg common.LoggingConfig) common.LoggingConfig {
	cfg.Outputs = slices.DeleteFunc(slices.Clone(cfg.Outputs), func(o string) bool {
		return o == "console"
	})
	if len(cfg.Outputs) == 0 {
		cfg.Outputs = []string{"file"}
	}
	return cfg
}
