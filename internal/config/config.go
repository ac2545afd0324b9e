package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	MCP     MCPConfig            `toml:"mcp"`
	Engine  EngineConfig         `toml:"engine"`
	Storage StorageConfig        `toml:"storage"`
	Tools   ToolsConfig          `toml:"tools"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// MCPConfig contains the identity advertised during initialize. The
// protocol revision is fixed and not configurable.
type MCPConfig struct {
	ServerName    string `toml:"server_name"`
	ServerVersion string `toml:"server_version"`
	// Author is the label stamped on every tool identity.
	Author string `toml:"author"`
}

// EngineConfig points at the host's tool-execution engine.
type EngineConfig struct {
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the engine client timeout.
func (c *EngineConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 300 * time.Second
	}
	return d
}

// StorageConfig contains settings for the session-keyed response store.
// Backend is "memory" (default), "badger", or "redis".
type StorageConfig struct {
	Backend string       `toml:"backend"`
	TTL     string       `toml:"ttl"`
	Badger  BadgerConfig `toml:"badger"`
	Redis   RedisConfig  `toml:"redis"`
}

// GetTTL parses how long an undelivered response is kept. Zero means forever.
func (c *StorageConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// ToolsConfig holds the tool records exposed over MCP. File, when set, is
// re-read on every request and takes precedence over inline entries.
type ToolsConfig struct {
	File    string           `toml:"file"`
	Entries []map[string]any `toml:"entries"`
}

var validBackends = map[string]bool{"memory": true, "badger": true, "redis": true}

// Validate returns a list of problems with mandatory settings.
func (c *Config) Validate() []string {
	var issues []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Engine.URL) == "" {
		issues = append(issues, "engine.url is required (TOOLBRIDGE_ENGINE_URL)")
	}
	if !validBackends[c.Storage.Backend] {
		issues = append(issues, fmt.Sprintf("storage.backend %q must be one of memory, badger, redis", c.Storage.Backend))
	}
	if c.Storage.Backend == "redis" && c.Storage.Redis.Addr == "" {
		issues = append(issues, "storage.redis.addr is required when storage.backend is redis")
	}
	if c.Storage.Backend == "badger" && c.Storage.Badger.Path == "" {
		issues = append(issues, "storage.badger.path is required when storage.backend is badger")
	}
	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies TOOLBRIDGE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("TOOLBRIDGE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TOOLBRIDGE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if url := os.Getenv("TOOLBRIDGE_ENGINE_URL"); url != "" {
		config.Engine.URL = url
	}
	if key := os.Getenv("TOOLBRIDGE_ENGINE_API_KEY"); key != "" {
		config.Engine.APIKey = key
	}
	if backend := os.Getenv("TOOLBRIDGE_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if badgerPath := os.Getenv("TOOLBRIDGE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if addr := os.Getenv("TOOLBRIDGE_REDIS_ADDR"); addr != "" {
		config.Storage.Redis.Addr = addr
	}
	if file := os.Getenv("TOOLBRIDGE_TOOLS_FILE"); file != "" {
		config.Tools.File = file
	}
	if level := os.Getenv("TOOLBRIDGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
