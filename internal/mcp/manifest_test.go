package mcp

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/bobmcallan/toolbridge/internal/models"
	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forecastDefinition(t *testing.T) models.ToolDefinition {
	t.Helper()
	reg, err := BuildRegistry([]models.RawTool{weatherTool()})
	require.NoError(t, err)
	def, ok := reg.Lookup("forecast")
	require.True(t, ok)
	return def
}

func TestToManifest_OmitsFileAndNonLLMParameters(t *testing.T) {
	m, err := ToManifest(forecastDefinition(t))
	require.NoError(t, err)

	var names []string
	for _, p := range m.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"city", "units", "days"}, names)
	assert.NotContains(t, m.Required, "attachment")
	assert.NotContains(t, m.Required, "api_region")
}

func TestToManifest_EnumOnlyForSelectWithOptions(t *testing.T) {
	def := models.ToolDefinition{
		Name: "t",
		Parameters: []models.ToolParameter{
			{Name: "a", Type: models.ParamSelect, Form: models.FormLLM, Options: []models.ParameterOption{{Value: "x"}, {Value: "y"}}},
			{Name: "b", Type: models.ParamSelect, Form: models.FormLLM},
			{Name: "c", Type: models.ParamString, Form: models.FormLLM, Options: []models.ParameterOption{{Value: "z"}}},
		},
	}

	m, err := ToManifest(def)
	require.NoError(t, err)
	require.Len(t, m.Properties, 3)
	assert.Equal(t, []any{"x", "y"}, m.Properties[0].Enum)
	assert.Nil(t, m.Properties[1].Enum)
	assert.Nil(t, m.Properties[2].Enum)

	schema, err := m.InputSchema()
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(schema), `"enum"`))
}

func TestToManifest_RequiredInDeclarationOrder(t *testing.T) {
	def := models.ToolDefinition{
		Name: "t",
		Parameters: []models.ToolParameter{
			{Name: "z", Type: models.ParamString, Form: models.FormLLM, Required: true},
			{Name: "m", Type: models.ParamNumber, Form: models.FormLLM},
			{Name: "a", Type: models.ParamBoolean, Form: models.FormLLM, Required: true},
		},
	}

	m, err := ToManifest(def)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, m.Required)
}

func TestToManifest_TypeMapping(t *testing.T) {
	cases := map[models.ParameterType]string{
		models.ParamString:        "string",
		models.ParamSecretInput:   "string",
		models.ParamSelect:        "string",
		models.ParamDynamicSelect: "string",
		models.ParamAny:           "string",
		models.ParamNumber:        "number",
		models.ParamBoolean:       "boolean",
		models.ParamCheckbox:      "boolean",
		models.ParamObject:        "object",
		models.ParamArray:         "array",
	}
	for pt, want := range cases {
		def := models.ToolDefinition{Name: "t", Parameters: []models.ToolParameter{{Name: "p", Type: pt, Form: models.FormLLM}}}
		m, err := ToManifest(def)
		require.NoError(t, err, "type %s", pt)
		assert.Equal(t, want, m.Properties[0].Type, "type %s", pt)
	}
}

func TestToManifest_UntranslatableTypes(t *testing.T) {
	for _, pt := range []models.ParameterType{models.ParamAppSelector, models.ParamModelSelector, models.ParamToolsSelector, "matrix"} {
		def := models.ToolDefinition{Name: "t", Parameters: []models.ToolParameter{{Name: "p", Type: pt, Form: models.FormLLM}}}
		_, err := ToManifest(def)
		require.Error(t, err, "type %s", pt)
		assert.True(t, errors.Is(err, ErrManifestTranslation))
	}
}

func TestToManifest_UntranslatableTypeHiddenFromLLMIsFine(t *testing.T) {
	def := models.ToolDefinition{Name: "t", Parameters: []models.ToolParameter{{Name: "p", Type: models.ParamModelSelector, Form: models.FormForm}}}
	_, err := ToManifest(def)
	assert.NoError(t, err)
}

func TestToManifest_RejectsCompositeOptionValues(t *testing.T) {
	def := models.ToolDefinition{Name: "t", Parameters: []models.ToolParameter{{
		Name: "p", Type: models.ParamSelect, Form: models.FormLLM,
		Options: []models.ParameterOption{{Value: map[string]any{"nested": true}}},
	}}}
	_, err := ToManifest(def)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrManifestTranslation))
}

func TestToManifest_RejectsNonFiniteOptionValues(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), math.Inf(-1), float32(math.Inf(1))} {
		def := models.ToolDefinition{Name: "t", Parameters: []models.ToolParameter{{
			Name: "p", Type: models.ParamSelect, Form: models.FormLLM,
			Options: []models.ParameterOption{{Value: "ok"}, {Value: v}},
		}}}
		_, err := ToManifest(def)
		require.Error(t, err, "value %v", v)
		assert.True(t, errors.Is(err, ErrManifestTranslation))
		assert.Contains(t, err.Error(), "non-finite")
	}
}

func TestToManifest_UnknownTypeNamedInError(t *testing.T) {
	def := models.ToolDefinition{Name: "t", Parameters: []models.ToolParameter{{Name: "p", Type: "matrix", Form: models.FormLLM}}}
	_, err := ToManifest(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "matrix"`)
}

func TestManifest_MarshalJSONKeepsPropertyOrder(t *testing.T) {
	m, err := ToManifest(forecastDefinition(t))
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	s := string(data)
	assert.Less(t, strings.Index(s, `"city"`), strings.Index(s, `"units"`))
	assert.Less(t, strings.Index(s, `"units"`), strings.Index(s, `"days"`))

	assert.JSONEq(t, `{
		"name": "forecast",
		"description": "Get the weather forecast",
		"inputSchema": {
			"type": "object",
			"properties": {
				"city": {"type": "string", "description": "City name"},
				"units": {"type": "string", "description": "Units", "enum": ["metric", "imperial"]},
				"days": {"type": "number", "description": ""}
			},
			"required": ["city", "days"]
		}
	}`, s)
}

func TestManifest_EmptyToolHasEmptyRequiredArray(t *testing.T) {
	m, err := ToManifest(models.ToolDefinition{Name: "noop", Description: "Does nothing"})
	require.NoError(t, err)

	schema, err := m.InputSchema()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{},"required":[]}`, string(schema))
}

func TestManifest_InputSchemaCompiles(t *testing.T) {
	m, err := ToManifest(forecastDefinition(t))
	require.NoError(t, err)

	schema, err := m.InputSchema()
	require.NoError(t, err)

	compiled, err := jsonschema.CompileString("forecast.json", string(schema))
	require.NoError(t, err)

	var valid, missing, badEnum any
	require.NoError(t, json.Unmarshal([]byte(`{"city":"Perth","days":3,"units":"metric"}`), &valid))
	require.NoError(t, json.Unmarshal([]byte(`{"city":"Perth"}`), &missing))
	require.NoError(t, json.Unmarshal([]byte(`{"city":"Perth","days":3,"units":"kelvin"}`), &badEnum))

	assert.NoError(t, compiled.Validate(valid))
	assert.Error(t, compiled.Validate(missing))
	assert.Error(t, compiled.Validate(badEnum))
}

func TestTranslateTools_KeepsFailuresExplicit(t *testing.T) {
	defs := []models.ToolDefinition{
		{Name: "ok"},
		{Name: "bad", Parameters: []models.ToolParameter{{Name: "m", Type: models.ParamModelSelector, Form: models.FormLLM}}},
		{Name: "also_ok"},
	}

	results := TranslateTools(defs)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "bad", results[1].Name)

	manifests := Manifests(results)
	require.Len(t, manifests, 2)
	assert.Equal(t, "ok", manifests[0].Name)
	assert.Equal(t, "also_ok", manifests[1].Name)
}

func TestManifest_ToMCPTool(t *testing.T) {
	m, err := ToManifest(forecastDefinition(t))
	require.NoError(t, err)

	tool, err := m.ToMCPTool()
	require.NoError(t, err)
	assert.Equal(t, "forecast", tool.Name)
	assert.Equal(t, "Get the weather forecast", tool.Description)

	data, err := json.Marshal(tool)
	require.NoError(t, err)

	var decoded struct {
		InputSchema struct {
			Required []string `json:"required"`
		} `json:"inputSchema"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"city", "days"}, decoded.InputSchema.Required)
}
