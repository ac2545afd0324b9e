package mcp

import (
	"context"
	"errors"
	"iter"
	"maps"
	"sync"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/models"
)

// --- Helpers ---

// fakeEngine records invocations and replays canned parts.
type fakeEngine struct {
	mu       sync.Mutex
	calls    []models.Invocation
	parts    []models.MessagePart
	startErr error
	midErr   error
}

func (e *fakeEngine) Invoke(_ context.Context, inv models.Invocation) (iter.Seq2[models.MessagePart, error], error) {
	e.mu.Lock()
	inv.Parameters = maps.Clone(inv.Parameters)
	e.calls = append(e.calls, inv)
	e.mu.Unlock()

	if e.startErr != nil {
		return nil, e.startErr
	}
	return func(yield func(models.MessagePart, error) bool) {
		for _, p := range e.parts {
			if !yield(p, nil) {
				return
			}
		}
		if e.midErr != nil {
			yield(models.MessagePart{}, e.midErr)
		}
	}, nil
}

func (e *fakeEngine) lastCall() models.Invocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[len(e.calls)-1]
}

// staticTools serves a fixed set of records.
type staticTools struct {
	records []models.RawTool
	err     error
}

func (s staticTools) Tools(context.Context) ([]models.RawTool, error) {
	return s.records, s.err
}

// recordingStore keeps every write.
type recordingStore struct {
	mu     sync.Mutex
	writes map[string][]byte
	count  int
	err    error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{writes: make(map[string][]byte)}
}

func (s *recordingStore) Set(_ context.Context, key string, value []byte) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes[key] = value
	s.count++
	return nil
}

func (s *recordingStore) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.writes[key]
	return v, ok
}

var errEngineDown = errors.New("engine unavailable: connection refused")

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

func testIdentity() ServerIdentity {
	return ServerIdentity{Name: "MCP Compatible Dify Tools", Version: "1.3.0"}
}

func newTestDispatcher(engine *fakeEngine, store *recordingStore) *Dispatcher {
	return NewDispatcher(testIdentity(), DefaultAuthor, NewBridge(engine, testLogger()), store, testLogger())
}

// weatherTool is an enabled record exercising most parameter shapes.
func weatherTool() models.RawTool {
	return models.RawTool{
		"enabled":       true,
		"type":          "api",
		"tool_name":     "forecast",
		"tool_label":    "Forecast",
		"provider_name": "weather",
		"extra":         map[string]any{"description": "Get the weather forecast"},
		"schemas": []any{
			map[string]any{"name": "city", "type": "string", "form": "llm", "required": true, "llm_description": "City name"},
			map[string]any{"name": "units", "type": "select", "form": "llm", "llm_description": "Units",
				"options": []any{
					map[string]any{"value": "metric", "label": map[string]any{"en_US": "Metric"}},
					map[string]any{"value": "imperial", "label": "Imperial"},
				}},
			map[string]any{"name": "attachment", "type": "file", "form": "llm", "required": true},
			map[string]any{"name": "api_region", "type": "string", "form": "form", "required": true},
			map[string]any{"name": "days", "type": "number", "form": "llm", "required": true},
		},
		"settings": map[string]any{
			"api_region": map[string]any{"value": "au"},
			"units":      map[string]any{"value": "metric"},
		},
	}
}

func simpleTool(name string, enabled any) models.RawTool {
	rec := models.RawTool{
		"type":          "builtin",
		"tool_name":     name,
		"tool_label":    name + " label",
		"provider_name": "core",
	}
	if enabled != nil {
		rec["enabled"] = enabled
	}
	return rec
}

func textPart(text string) models.MessagePart {
	return models.MessagePart{Type: models.MessageText, Text: text}
}

func linkPart(url string) models.MessagePart {
	return models.MessagePart{Type: models.MessageLink, Text: url}
}

func jsonPart(v any) models.MessagePart {
	return models.MessagePart{Type: models.MessageJSON, JSON: v}
}
