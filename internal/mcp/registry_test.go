package mcp

import (
	"testing"

	"github.com/bobmcallan/toolbridge/internal/models"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRegistry_ExcludesDisabled(t *testing.T) {
	raw := []models.RawTool{
		simpleTool("on", true),
		simpleTool("off", false),
		simpleTool("missing", nil),
		simpleTool("truthy_string", "true"),
	}

	reg, err := BuildRegistry(raw)
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Lookup("on")
	assert.True(t, ok)
	for _, name := range []string{"off", "missing", "truthy_string"} {
		_, ok := reg.Lookup(name)
		assert.False(t, ok, "expected %s to be excluded", name)
	}
}

func TestBuildRegistry_ParsesRecord(t *testing.T) {
	reg, err := BuildRegistry([]models.RawTool{weatherTool()}, WithAuthor("Acme"))
	require.NoError(t, err)

	def, ok := reg.Lookup("forecast")
	require.True(t, ok)

	assert.Equal(t, "weather", def.Provider)
	assert.Equal(t, "Acme", def.Author)
	assert.Equal(t, "Forecast", def.Label)
	assert.Equal(t, "Get the weather forecast", def.Description)
	assert.Equal(t, models.ProviderAPI, def.ProviderKind)
	assert.Equal(t, map[string]any{"api_region": "au", "units": "metric"}, def.RuntimeParameters)

	require.Len(t, def.Parameters, 5)
	units := def.Parameters[1]
	assert.Equal(t, models.ParamSelect, units.Type)
	assert.Equal(t, models.FormLLM, units.Form)
	require.Len(t, units.Options, 2)
	assert.Equal(t, "Metric", units.Options[0].Label)
	assert.Equal(t, "Imperial", units.Options[1].Label)
	assert.Equal(t, models.FormForm, def.Parameters[3].Form)
}

func TestBuildRegistry_DescriptionFallsBackToLabel(t *testing.T) {
	rec := simpleTool("clock", true)
	rec["extra"] = map[string]any{}

	reg, err := BuildRegistry([]models.RawTool{rec})
	require.NoError(t, err)

	def, _ := reg.Lookup("clock")
	assert.Equal(t, "clock label", def.Description)
	assert.Equal(t, DefaultAuthor, def.Author)
	assert.Equal(t, models.ProviderBuiltin, def.ProviderKind)
	assert.Empty(t, def.Parameters)
}

func TestBuildRegistry_ProviderKinds(t *testing.T) {
	cases := map[string]models.ProviderKind{
		"api":      models.ProviderAPI,
		"workflow": models.ProviderWorkflow,
		"builtin":  models.ProviderBuiltin,
		"plugin":   models.ProviderBuiltin,
	}
	for recordType, want := range cases {
		rec := simpleTool("t", true)
		rec["type"] = recordType
		reg, err := BuildRegistry([]models.RawTool{rec})
		require.NoError(t, err)
		def, _ := reg.Lookup("t")
		assert.Equal(t, want, def.ProviderKind, "type %s", recordType)
	}
}

func TestBuildRegistry_MalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(models.RawTool)
	}{
		{"missing type", func(r models.RawTool) { delete(r, "type") }},
		{"missing tool_name", func(r models.RawTool) { delete(r, "tool_name") }},
		{"missing tool_label", func(r models.RawTool) { delete(r, "tool_label") }},
		{"missing provider_name", func(r models.RawTool) { delete(r, "provider_name") }},
		{"non-string name", func(r models.RawTool) { r["tool_name"] = 42 }},
		{"extra not an object", func(r models.RawTool) { r["extra"] = "desc" }},
		{"schemas not a list", func(r models.RawTool) { r["schemas"] = map[string]any{} }},
		{"schema missing name", func(r models.RawTool) {
			r["schemas"] = []any{map[string]any{"type": "string"}}
		}},
		{"schema missing type", func(r models.RawTool) {
			r["schemas"] = []any{map[string]any{"name": "q"}}
		}},
		{"schema unknown form", func(r models.RawTool) {
			r["schemas"] = []any{map[string]any{"name": "q", "type": "string", "form": "modal"}}
		}},
		{"schema required not bool", func(r models.RawTool) {
			r["schemas"] = []any{map[string]any{"name": "q", "type": "string", "required": "yes"}}
		}},
		{"option missing value", func(r models.RawTool) {
			r["schemas"] = []any{map[string]any{"name": "q", "type": "select", "options": []any{map[string]any{"label": "x"}}}}
		}},
		{"setting not an object", func(r models.RawTool) { r["settings"] = map[string]any{"q": "v"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := simpleTool("broken", true)
			tt.mutate(bad)

			reg, err := BuildRegistry([]models.RawTool{simpleTool("good", true), bad})
			require.Error(t, err)
			assert.Nil(t, reg, "no partial registry on failure")
			assert.True(t, errors.Is(err, ErrMalformedConfig), "expected ErrMalformedConfig, got %v", err)
		})
	}
}

func TestBuildRegistry_MalformedDisabledRecordIgnored(t *testing.T) {
	bad := models.RawTool{"enabled": false}
	reg, err := BuildRegistry([]models.RawTool{bad, simpleTool("good", true)})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
}

func TestBuildRegistry_MissingFieldNamesRecord(t *testing.T) {
	bad := simpleTool("broken", true)
	delete(bad, "provider_name")

	_, err := BuildRegistry([]models.RawTool{simpleTool("good", true), bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool record 1")
	assert.Contains(t, err.Error(), "provider_name")
}

func TestBuildRegistry_DuplicateNamesLastWins(t *testing.T) {
	first := simpleTool("dup", true)
	first["provider_name"] = "first"
	second := simpleTool("dup", true)
	second["provider_name"] = "second"

	reg, err := BuildRegistry([]models.RawTool{first, second})
	require.NoError(t, err)

	def, ok := reg.Lookup("dup")
	require.True(t, ok)
	assert.Equal(t, "second", def.Provider)
	assert.Len(t, reg.Definitions(), 2)
}

func TestBuildRegistry_TypedSliceShapes(t *testing.T) {
	// Records assembled in Go rather than decoded from JSON.
	rec := simpleTool("typed", true)
	rec["schemas"] = []map[string]any{{"name": "q", "type": "string"}}
	rec["extra"] = models.RawTool{"description": "typed record"}

	reg, err := BuildRegistry([]models.RawTool{rec})
	require.NoError(t, err)

	def, _ := reg.Lookup("typed")
	assert.Equal(t, "typed record", def.Description)
	require.Len(t, def.Parameters, 1)
	assert.Equal(t, models.FormLLM, def.Parameters[0].Form)
}

func TestRegistry_DefinitionsIsCopy(t *testing.T) {
	reg, err := BuildRegistry([]models.RawTool{simpleTool("a", true)})
	require.NoError(t, err)

	defs := reg.Definitions()
	defs[0].Name = "mutated"

	_, ok := reg.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "a", reg.Definitions()[0].Name)
}
