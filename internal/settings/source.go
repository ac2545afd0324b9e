// Package settings supplies the tool records exposed over MCP.
package settings

import (
	"context"
	"fmt"
	"os"

	"github.com/bobmcallan/toolbridge/internal/config"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/bobmcallan/toolbridge/internal/models"
	"gopkg.in/yaml.v3"
)

// StaticSource serves records fixed at startup, typically [[tools.entries]]
// from the TOML config.
type StaticSource struct {
	records []models.RawTool
}

// NewStaticSource copies entries into a StaticSource.
func NewStaticSource(entries []map[string]any) *StaticSource {
	records := make([]models.RawTool, len(entries))
	for i, e := range entries {
		records[i] = models.RawTool(e)
	}
	return &StaticSource{records: records}
}

// Tools returns the configured records.
func (s *StaticSource) Tools(context.Context) ([]models.RawTool, error) {
	return s.records, nil
}

// FileSource reads records from a YAML or JSON file on every call, so edits
// take effect on the next request.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// toolsDocument is the keyed form of a tools file: tools: [ ... ].
type toolsDocument struct {
	Tools []map[string]any `yaml:"tools"`
}

// Tools reads and decodes the file. The document may be a bare list of
// records or a mapping with a "tools" list.
func (s *FileSource) Tools(ctx context.Context) ([]models.RawTool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tools file %s: %w", s.path, err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse tools file %s: %w", s.path, err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var entries []map[string]any
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to decode tools file %s: %w", s.path, err)
		}
	case yaml.MappingNode:
		var doc toolsDocument
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode tools file %s: %w", s.path, err)
		}
		entries = doc.Tools
	default:
		return nil, fmt.Errorf("tools file %s must contain a list of tools", s.path)
	}

	records := make([]models.RawTool, len(entries))
	for i, e := range entries {
		records[i] = models.RawTool(e)
	}
	return records, nil
}

// NewSource picks the file source when a tools file is configured and the
// inline entries otherwise.
func NewSource(cfg config.ToolsConfig) interfaces.ToolSource {
	if cfg.File != "" {
		return NewFileSource(cfg.File)
	}
	return NewStaticSource(cfg.Entries)
}
