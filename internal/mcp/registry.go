package mcp

import (
	"github.com/bobmcallan/toolbridge/internal/models"
)

// DefaultAuthor is stamped on tool identities when no author is configured.
const DefaultAuthor = "Dify"

// Registry holds the enabled tools for a single request. It is built from the
// raw tool records on every request and discarded afterwards.
type Registry struct {
	defs   []models.ToolDefinition
	byName map[string]int
}

// RegistryOption customises BuildRegistry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	author string
}

// WithAuthor sets the author label recorded on every tool definition.
func WithAuthor(author string) RegistryOption {
	return func(o *registryOptions) {
		if author != "" {
			o.author = author
		}
	}
}

// BuildRegistry converts raw tool records into tool definitions. Records whose
// "enabled" flag is not literally true are dropped. Any malformed enabled
// record fails the whole build with ErrMalformedConfig.
func BuildRegistry(raw []models.RawTool, opts ...RegistryOption) (*Registry, error) {
	o := registryOptions{author: DefaultAuthor}
	for _, opt := range opts {
		opt(&o)
	}

	reg := &Registry{byName: make(map[string]int)}
	for i, rec := range raw {
		if enabled, _ := rec["enabled"].(bool); !enabled {
			continue
		}
		def, err := parseTool(i, rec, o.author)
		if err != nil {
			return nil, err
		}
		// Later records shadow earlier ones of the same name for lookup.
		reg.byName[def.Name] = len(reg.defs)
		reg.defs = append(reg.defs, def)
	}
	return reg, nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (models.ToolDefinition, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return models.ToolDefinition{}, false
	}
	return r.defs[idx], true
}

// Definitions returns every enabled definition in declaration order.
func (r *Registry) Definitions() []models.ToolDefinition {
	out := make([]models.ToolDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of enabled records.
func (r *Registry) Len() int {
	return len(r.defs)
}

func parseTool(idx int, rec models.RawTool, author string) (models.ToolDefinition, error) {
	var def models.ToolDefinition

	recordType, err := requiredString(idx, rec, "type")
	if err != nil {
		return def, err
	}
	name, err := requiredString(idx, rec, "tool_name")
	if err != nil {
		return def, err
	}
	label, err := requiredString(idx, rec, "tool_label")
	if err != nil {
		return def, err
	}
	provider, err := requiredString(idx, rec, "provider_name")
	if err != nil {
		return def, err
	}

	description := label
	if extraVal, present := rec["extra"]; present && extraVal != nil {
		extra, ok := asMap(extraVal)
		if !ok {
			return def, malformed("tool record %d (%s): extra must be an object", idx, name)
		}
		if d, ok := extra["description"].(string); ok && d != "" {
			description = d
		}
	}

	var params []models.ToolParameter
	if schemasVal, present := rec["schemas"]; present && schemasVal != nil {
		schemas, ok := asSlice(schemasVal)
		if !ok {
			return def, malformed("tool record %d (%s): schemas must be a list", idx, name)
		}
		params = make([]models.ToolParameter, 0, len(schemas))
		for j, s := range schemas {
			p, err := parseParameter(idx, name, j, s)
			if err != nil {
				return def, err
			}
			params = append(params, p)
		}
	}

	runtime := make(map[string]any)
	if settingsVal, present := rec["settings"]; present && settingsVal != nil {
		settings, ok := asMap(settingsVal)
		if !ok {
			return def, malformed("tool record %d (%s): settings must be an object", idx, name)
		}
		for key, v := range settings {
			entry, ok := asMap(v)
			if !ok {
				return def, malformed("tool record %d (%s): setting %q must be an object", idx, name, key)
			}
			runtime[key] = entry["value"]
		}
	}

	return models.ToolDefinition{
		Name:              name,
		Provider:          provider,
		Author:            author,
		Label:             label,
		Description:       description,
		Parameters:        params,
		ProviderKind:      models.ProviderKindFromType(recordType),
		RuntimeParameters: runtime,
	}, nil
}

func parseParameter(idx int, tool string, pos int, raw any) (models.ToolParameter, error) {
	var p models.ToolParameter

	m, ok := asMap(raw)
	if !ok {
		return p, malformed("tool record %d (%s): parameter %d must be an object", idx, tool, pos)
	}
	name, _ := m["name"].(string)
	if name == "" {
		return p, malformed("tool record %d (%s): parameter %d is missing name", idx, tool, pos)
	}
	typ, _ := m["type"].(string)
	if typ == "" {
		return p, malformed("tool record %d (%s): parameter %q is missing type", idx, tool, name)
	}

	formStr, _ := m["form"].(string)
	form, err := models.ParseParameterForm(formStr)
	if err != nil {
		return p, malformed("tool record %d (%s): parameter %q: %v", idx, tool, name, err)
	}

	required := false
	if v, present := m["required"]; present && v != nil {
		b, ok := v.(bool)
		if !ok {
			return p, malformed("tool record %d (%s): parameter %q: required must be a boolean", idx, tool, name)
		}
		required = b
	}

	var options []models.ParameterOption
	if v, present := m["options"]; present && v != nil {
		rawOpts, ok := asSlice(v)
		if !ok {
			return p, malformed("tool record %d (%s): parameter %q: options must be a list", idx, tool, name)
		}
		for k, ro := range rawOpts {
			om, ok := asMap(ro)
			if !ok {
				return p, malformed("tool record %d (%s): parameter %q: option %d must be an object", idx, tool, name, k)
			}
			value, present := om["value"]
			if !present {
				return p, malformed("tool record %d (%s): parameter %q: option %d is missing value", idx, tool, name, k)
			}
			options = append(options, models.ParameterOption{Value: value, Label: localized(om["label"])})
		}
	}

	llmDescription, _ := m["llm_description"].(string)

	return models.ToolParameter{
		Name:           name,
		Label:          localized(m["label"]),
		Type:           models.ParameterType(typ),
		Description:    localized(m["human_description"]),
		LLMDescription: llmDescription,
		Required:       required,
		Form:           form,
		Options:        options,
		Default:        m["default"],
	}, nil
}

func requiredString(idx int, rec models.RawTool, key string) (string, error) {
	v, ok := rec[key].(string)
	if !ok || v == "" {
		return "", malformed("tool record %d: missing required field %q", idx, key)
	}
	return v, nil
}

// localized reads a display string that may be plain text or a
// locale-keyed object such as {"en_US": "..."}.
func localized(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	}
	m, ok := asMap(v)
	if !ok {
		return ""
	}
	if s, ok := m["en_US"].(string); ok {
		return s
	}
	return ""
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case models.RawTool:
		return t, true
	}
	return nil, false
}

func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}
