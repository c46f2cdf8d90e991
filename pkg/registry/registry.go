// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// LoadDefault finds registry.json in the usual locations so loading works
// from the repo root and from cmd/ directories alike.
func LoadDefault() (*ActivityRegistry, error) {
	candidates := []string{
		filepath.Join("configs", "registry.json"),
		filepath.Join("..", "..", "configs", "registry.json"),
		"registry.json",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return LoadRegistry(path)
		}
	}
	return nil, fmt.Errorf("registry.json not found in %v", candidates)
}

// Find returns the activity registered for a task type.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// ValidateInput checks job variables against the activity's input schema.
func (a *Activity) ValidateInput(input map[string]interface{}) error {
	return validate(a.InputSchema, input, "input")
}

// ValidateOutput checks completion variables against the activity's output schema.
func (a *Activity) ValidateOutput(output map[string]interface{}) error {
	return validate(a.OutputSchema, output, "output")
}

func validate(schema map[string]interface{}, document map[string]interface{}, kind string) error {
	if len(schema) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return fmt.Errorf("%s schema validation failed to run: %w", kind, err)
	}
	if !result.Valid() {
		return fmt.Errorf("%s does not match schema: %v", kind, result.Errors())
	}
	return nil
}
