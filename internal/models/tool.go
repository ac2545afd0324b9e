package models

import "fmt"

// RawTool is one tool record exactly as the settings layer delivers it.
// Keys follow the host's tool-selector format: enabled, type, tool_name,
// tool_label, provider_name, extra, schemas, settings.
type RawTool map[string]any

// ProviderKind identifies which host subsystem owns a tool.
type ProviderKind string

const (
	ProviderBuiltin  ProviderKind = "builtin"
	ProviderAPI      ProviderKind = "api"
	ProviderWorkflow ProviderKind = "workflow"
)

// ProviderKindFromType maps a raw record type onto a ProviderKind.
// Anything other than "api" or "workflow" is a built-in provider.
func ProviderKindFromType(recordType string) ProviderKind {
	switch recordType {
	case "api":
		return ProviderAPI
	case "workflow":
		return ProviderWorkflow
	default:
		return ProviderBuiltin
	}
}

// ParameterType is the declared type of a tool parameter.
type ParameterType string

const (
	ParamString        ParameterType = "string"
	ParamNumber        ParameterType = "number"
	ParamBoolean       ParameterType = "boolean"
	ParamSelect        ParameterType = "select"
	ParamSecretInput   ParameterType = "secret-input"
	ParamFile          ParameterType = "file"
	ParamFiles         ParameterType = "files"
	ParamAppSelector   ParameterType = "app-selector"
	ParamModelSelector ParameterType = "model-selector"
	ParamToolsSelector ParameterType = "tools"
	ParamAny           ParameterType = "any"
	ParamObject        ParameterType = "object"
	ParamArray         ParameterType = "array"
	ParamCheckbox      ParameterType = "checkbox"
	ParamDynamicSelect ParameterType = "dynamic-select"
)

var knownParameterTypes = map[ParameterType]bool{
	ParamString: true, ParamNumber: true, ParamBoolean: true, ParamSelect: true,
	ParamSecretInput: true, ParamFile: true, ParamFiles: true, ParamAppSelector: true,
	ParamModelSelector: true, ParamToolsSelector: true, ParamAny: true, ParamObject: true,
	ParamArray: true, ParamCheckbox: true, ParamDynamicSelect: true,
}

// IsKnown reports whether t is one of the declared parameter types.
// Unknown types survive registry construction so the tool stays callable,
// but they cannot be described in a manifest.
func (t ParameterType) IsKnown() bool {
	return knownParameterTypes[t]
}

// IsFile reports whether the parameter carries file uploads.
func (t ParameterType) IsFile() bool {
	return t == ParamFile || t == ParamFiles
}

// ParameterForm controls who supplies a parameter value.
type ParameterForm string

const (
	// FormLLM parameters are filled in by the model at call time.
	FormLLM ParameterForm = "llm"
	// FormForm parameters are configured by a user ahead of time.
	FormForm   ParameterForm = "form"
	FormSchema ParameterForm = "schema"
)

// ParseParameterForm validates a raw form string. An empty string means llm.
func ParseParameterForm(s string) (ParameterForm, error) {
	switch ParameterForm(s) {
	case "", FormLLM:
		return FormLLM, nil
	case FormForm, FormSchema:
		return ParameterForm(s), nil
	default:
		return "", fmt.Errorf("unknown parameter form %q", s)
	}
}

// ParameterOption is one allowed value of a select parameter.
type ParameterOption struct {
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// ToolParameter describes one input of a tool.
type ToolParameter struct {
	Name           string
	Label          string
	Type           ParameterType
	Description    string
	LLMDescription string
	Required       bool
	Form           ParameterForm
	Options        []ParameterOption
	Default        any
}

// VisibleToLLM reports whether the model is expected to supply this parameter.
func (p ToolParameter) VisibleToLLM() bool {
	return p.Form == FormLLM
}

// ToolDefinition is an invocable tool as configured for one request.
type ToolDefinition struct {
	Name              string
	Provider          string
	Author            string
	Label             string
	Description       string
	Parameters        []ToolParameter
	ProviderKind      ProviderKind
	RuntimeParameters map[string]any
}

// Invocation is what the tool-execution engine receives.
type Invocation struct {
	ProviderKind ProviderKind   `json:"provider_type"`
	Provider     string         `json:"provider"`
	ToolName     string         `json:"tool_name"`
	Parameters   map[string]any `json:"parameters"`
}
