package components

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultTableYAML []byte

// VariantDefinition is a named override layered onto a component definition
// at render time. All fields are optional; an empty variant is legal and
// simply tags the output with data-variant.
type VariantDefinition struct {
	// CSSModifier is appended to the class list when the variant is active,
	// e.g. "card--featured".
	CSSModifier string `yaml:"css_modifier"`

	// CSSVariables are emitted as "--key: value" style fragments.
	CSSVariables map[string]string `yaml:"css_variables"`

	// StimulusController overrides the component's controller for this
	// invocation only.
	StimulusController string `yaml:"stimulus_controller"`

	// RenderMethod overrides the component's data-driven renderer for this
	// invocation only (e.g. a "hero" card variant).
	RenderMethod string `yaml:"render_method"`
}

// ComponentDefinition is the static configuration record for one named
// component. Definitions are immutable after load; reconfiguration replaces
// the whole table rather than mutating entries in place.
type ComponentDefinition struct {
	// Tag is the HTML element name. Required.
	Tag string `yaml:"tag" validate:"required"`

	// CSSClass is the base class every instance carries. Required.
	CSSClass string `yaml:"css_class" validate:"required"`

	// AIControllable marks the component as remotely adjustable. Components
	// with this flag must declare the commands they accept.
	AIControllable bool     `yaml:"ai_controllable"`
	AICommands     []string `yaml:"ai_commands"`

	// CSSLayer is the cascade layer the component's styles live in.
	// Defaulted to "components" by the load-time enhance pass.
	CSSLayer string `yaml:"css_layer"`

	// AgentAware components receive per-request agent personalization
	// (theme variables, preference attributes).
	AgentAware bool `yaml:"agent_aware"`

	// StimulusController is the default client controller wired into
	// data-controller. Optional.
	StimulusController string `yaml:"stimulus_controller"`

	// Type is the input type for form controls ("text", "submit", ...).
	// Only applied when the caller didn't set one.
	Type string `yaml:"type"`

	// DataDriven forces structured-content dispatch even when no collection
	// key is present.
	DataDriven bool `yaml:"data_driven"`

	// RenderMethod names the content renderer for data-driven output
	// ("hero", "statistics", "cards", ...). Optional; routing falls back to
	// name-based heuristics.
	RenderMethod string `yaml:"render_method"`

	// Variants maps variant name to its override.
	Variants map[string]VariantDefinition `yaml:"variants"`
}

// ConfigTable maps component names to their definitions. The YAML shape is:
//
//	ui:
//	  widget:
//	    tag: div
//	    css_class: widget
//	    variants:
//	      compact:
//	        css_modifier: widget--compact
type ConfigTable struct {
	UI map[string]ComponentDefinition `yaml:"ui"`
}

// ConfigurationError reports every validation violation found in a config
// table, not just the first. It is only returned at load time.
type ConfigurationError struct {
	Violations []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("components: invalid configuration: %s", strings.Join(e.Violations, "; "))
}

// definitionDefaults is merged into every loaded definition (fill-empty
// semantics, existing values win). This is the one-time legacy-enhance pass;
// definitions are never partially mutated after it.
var definitionDefaults = ComponentDefinition{
	CSSLayer: "components",
}

var validate = validator.New()

// ParseTable decodes a YAML config table, applies the legacy-enhance default
// merge, and validates it. The returned table is ready to hand to a Registry.
func ParseTable(raw []byte) (*ConfigTable, error) {
	var table ConfigTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("components: parsing config: %w", err)
	}
	if table.UI == nil {
		table.UI = map[string]ComponentDefinition{}
	}

	for name, def := range table.UI {
		if err := mergo.Merge(&def, definitionDefaults); err != nil {
			return nil, fmt.Errorf("components: enhancing %q: %w", name, err)
		}
		table.UI[name] = def
	}

	if err := ValidateTable(&table); err != nil {
		return nil, err
	}
	return &table, nil
}

// LoadTable reads and parses a config table from disk.
func LoadTable(path string) (*ConfigTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("components: reading config %s: %w", path, err)
	}
	return ParseTable(raw)
}

// DefaultTable returns the embedded component table. It always parses; the
// embedded file is covered by tests.
func DefaultTable() *ConfigTable {
	table, err := ParseTable(defaultTableYAML)
	if err != nil {
		panic(err)
	}
	return table
}

// ValidateTable checks every definition and collects all violations into a
// single ConfigurationError. Contract: tag and css_class are required for
// every component; ai_controllable components must declare ai_commands.
func ValidateTable(table *ConfigTable) error {
	var violations []string

	names := make([]string, 0, len(table.UI))
	for name := range table.UI {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := table.UI[name]

		if err := validate.Struct(def); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, ferr := range verrs {
					violations = append(violations, fmt.Sprintf("%s: missing %s", name, yamlField(ferr.Field())))
				}
			} else {
				violations = append(violations, fmt.Sprintf("%s: %v", name, err))
			}
		}

		if def.AIControllable && len(def.AICommands) == 0 {
			violations = append(violations, fmt.Sprintf("%s: ai_controllable requires ai_commands", name))
		}
	}

	if len(violations) > 0 {
		return &ConfigurationError{Violations: violations}
	}
	return nil
}

// yamlField maps a struct field name back to its YAML spelling for error
// messages ("CSSClass" -> "css_class").
func yamlField(field string) string {
	switch field {
	case "Tag":
		return "tag"
	case "CSSClass":
		return "css_class"
	case "AICommands":
		return "ai_commands"
	default:
		return strings.ToLower(field)
	}
}
