package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidConfiguration wraps every schema violation so transports can
// report it as a client error.
var ErrInvalidConfiguration = errors.New("dashboard: invalid widget configuration")

// ConfigValidator validates widget configuration payloads against their schema.
type ConfigValidator interface {
	Validate(def WidgetDefinition, config map[string]any) error
}

// JSONSchemaValidator checks widget configuration against the definition
// schema. Compiled schemas are kept per definition code.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator returns an empty validator.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{compiled: map[string]*jsonschema.Schema{}}
}

// Validate returns an error wrapping ErrInvalidConfiguration when config does
// not satisfy the schema. Definitions without a schema accept anything.
func (v *JSONSchemaValidator) Validate(def WidgetDefinition, config map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.compile(def)
	if err != nil {
		return err
	}
	// jsonschema expects decoded JSON values, so typed Go values (ints,
	// slices of strings) go through a round trip first.
	doc := any(map[string]any{})
	if len(config) > 0 {
		raw, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("dashboard: encode %s config: %w", def.Code, err)
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("dashboard: decode %s config: %w", def.Code, err)
		}
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfiguration, def.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) compile(def WidgetDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	cached := v.compiled[def.Code]
	v.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	raw, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode %s schema: %w", def.Code, err)
	}
	schema, err := jsonschema.CompileString(def.Code+".json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile %s schema: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[def.Code] = schema
	v.mu.Unlock()
	return schema, nil
}

// ValidateDefaults checks the seed widgets against their definitions, so a
// broken schema fails at startup rather than on first render.
func (v *JSONSchemaValidator) ValidateDefaults() error {
	var errs error
	for _, req := range DefaultSeedWidgets() {
		def, ok := defaultDefinition(req.DefinitionID)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("%w: %s", errInvalidDefinition, req.DefinitionID))
			continue
		}
		errs = errors.Join(errs, v.Validate(def, req.Configuration))
	}
	return errs
}

func defaultDefinition(code string) (WidgetDefinition, bool) {
	for _, def := range defaultWidgetDefinitions {
		if def.Code == code {
			return def, true
		}
	}
	return WidgetDefinition{}, false
}
