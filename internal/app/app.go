package app

import (
	"fmt"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/config"
	"github.com/bobmcallan/toolbridge/internal/engine"
	"github.com/bobmcallan/toolbridge/internal/handlers"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/bobmcallan/toolbridge/internal/mcp"
	"github.com/bobmcallan/toolbridge/internal/settings"
	"github.com/bobmcallan/toolbridge/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Storage    interfaces.StorageManager
	Engine     *engine.Client
	Tools      interfaces.ToolSource
	Bridge     *mcp.Bridge
	Dispatcher *mcp.Dispatcher

	// HTTP handlers
	HealthHandler       *handlers.HealthHandler
	VersionHandler      *handlers.VersionHandler
	EngineHealthHandler *handlers.EngineHealthHandler
	ToolsHandler        *handlers.ToolsHandler
	MCPHandler          *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	store, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = store

	a.Engine = engine.NewClient(cfg.Engine, logger)
	a.Tools = settings.NewSource(cfg.Tools)
	a.Bridge = mcp.NewBridge(a.Engine, logger)
	a.Dispatcher = mcp.NewDispatcher(
		Identity(cfg),
		cfg.MCP.Author,
		a.Bridge,
		a.Storage.KeyValueStorage(),
		logger,
	)

	a.initHandlers()

	logger.Info().
		Str("storage", cfg.Storage.Backend).
		Str("engine", a.Engine.BaseURL()).
		Msg("application initialization complete")

	return a, nil
}

// Identity returns the server identity advertised on initialize.
func Identity(cfg *config.Config) mcp.ServerIdentity {
	return mcp.ServerIdentity{
		Name:    cfg.MCP.ServerName,
		Version: cfg.MCP.ServerVersion,
	}
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Config.Storage.Backend, a.Storage.KeyValueStorage())
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.EngineHealthHandler = handlers.NewEngineHealthHandler(a.Logger, a.Engine)
	a.ToolsHandler = handlers.NewToolsHandler(a.Logger, a.Tools, a.Config.MCP.Author)
	a.MCPHandler = mcp.NewHandler(a.Dispatcher, a.Tools, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	return a.Storage.Close()
}
