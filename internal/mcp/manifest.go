package mcp

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/bobmcallan/toolbridge/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// ManifestProperty is one entry of a tool's input schema.
type ManifestProperty struct {
	Name        string
	Type        string
	Description string
	Enum        []any
}

// Manifest is the MCP description of a tool as returned by tools/list.
// Properties keep the declaration order of the tool's parameters.
type Manifest struct {
	Name        string
	Description string
	Properties  []ManifestProperty
	Required    []string
}

// ManifestResult is the per-tool outcome of TranslateTools.
type ManifestResult struct {
	Name     string
	Manifest Manifest
	Err      error
}

type propertySchema struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Enum        []any  `json:"enum,omitempty"`
}

// schemaTypes maps parameter types onto JSON Schema types. Types absent from
// this table cannot be described to a model.
var schemaTypes = map[models.ParameterType]string{
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

// ToManifest describes def as an MCP tool. Only parameters the model fills in
// are listed, and file parameters are never listed.
func ToManifest(def models.ToolDefinition) (Manifest, error) {
	m := Manifest{
		Name:        def.Name,
		Description: def.Description,
		Properties:  []ManifestProperty{},
		Required:    []string{},
	}

	positions := make(map[string]int)
	required := make(map[string]bool)
	for _, p := range def.Parameters {
		if !p.VisibleToLLM() || p.Type.IsFile() {
			continue
		}
		if !p.Type.IsKnown() {
			return Manifest{}, untranslatable("tool %s: parameter %q has unknown type %q", def.Name, p.Name, p.Type)
		}
		schemaType, ok := schemaTypes[p.Type]
		if !ok {
			return Manifest{}, untranslatable("tool %s: parameter %q has type %q with no JSON Schema equivalent", def.Name, p.Name, p.Type)
		}

		prop := ManifestProperty{
			Name:        p.Name,
			Type:        schemaType,
			Description: p.LLMDescription,
		}
		if p.Type == models.ParamSelect && len(p.Options) > 0 {
			prop.Enum = make([]any, 0, len(p.Options))
			for _, opt := range p.Options {
				switch v := opt.Value.(type) {
				case string, bool, int, int64, int32:
				case float64:
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return Manifest{}, untranslatable("tool %s: parameter %q has non-finite option value %v", def.Name, p.Name, v)
					}
				case float32:
					if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
						return Manifest{}, untranslatable("tool %s: parameter %q has non-finite option value %v", def.Name, p.Name, v)
					}
				default:
					return Manifest{}, untranslatable("tool %s: parameter %q has option value of type %T", def.Name, p.Name, opt.Value)
				}
				prop.Enum = append(prop.Enum, opt.Value)
			}
		}

		if at, seen := positions[p.Name]; seen {
			m.Properties[at] = prop
		} else {
			positions[p.Name] = len(m.Properties)
			m.Properties = append(m.Properties, prop)
		}
		if p.Required && !required[p.Name] {
			required[p.Name] = true
			m.Required = append(m.Required, p.Name)
		}
	}
	return m, nil
}

// TranslateTools converts every definition, keeping failures alongside successes.
func TranslateTools(defs []models.ToolDefinition) []ManifestResult {
	results := make([]ManifestResult, 0, len(defs))
	for _, def := range defs {
		m, err := ToManifest(def)
		results = append(results, ManifestResult{Name: def.Name, Manifest: m, Err: err})
	}
	return results
}

// Manifests returns the successfully translated manifests in order.
func Manifests(results []ManifestResult) []Manifest {
	out := make([]Manifest, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Manifest)
		}
	}
	return out
}

// InputSchema renders the JSON Schema object for the tool's arguments.
func (m Manifest) InputSchema() (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"object","properties":{`)
	for i, p := range m.Properties {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(propertySchema{Type: p.Type, Description: p.Description, Enum: p.Enum})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`},"required":`)
	required := m.Required
	if required == nil {
		required = []string{}
	}
	req, err := json.Marshal(required)
	if err != nil {
		return nil, err
	}
	buf.Write(req)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON emits {"name","description","inputSchema"} with properties in
// declaration order.
func (m Manifest) MarshalJSON() ([]byte, error) {
	schema, err := m.InputSchema()
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		InputSchema json.RawMessage `json:"inputSchema"`
	}{m.Name, m.Description, schema})
}

// ToMCPTool converts the manifest into an mcp-go tool for the stdio server.
func (m Manifest) ToMCPTool() (mcp.Tool, error) {
	schema, err := m.InputSchema()
	if err != nil {
		return mcp.Tool{}, err
	}
	return mcp.NewToolWithRawSchema(m.Name, m.Description, schema), nil
}
