package config

import "github.com/bobmcallan/toolbridge/internal/common"

// Identity defaults advertised to MCP clients.
const (
	DefaultServerName    = "MCP Compatible Dify Tools"
	DefaultServerVersion = "1.3.0"
	DefaultAuthor        = "Dify"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4250,
			Host: "localhost",
		},
		MCP: MCPConfig{
			ServerName:    DefaultServerName,
			ServerVersion: DefaultServerVersion,
			Author:        DefaultAuthor,
		},
		Engine: EngineConfig{
			URL:     "http://localhost:5001",
			Timeout: "300s",
		},
		Storage: StorageConfig{
			Backend: "memory",
			TTL:     "10m",
			Badger: BadgerConfig{
				Path: "./data/toolbridge",
			},
			Redis: RedisConfig{
				KeyPrefix: "toolbridge:session:",
			},
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/toolbridge.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
