package config

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// Parse decodes and validates a YAML configuration. Unknown keys are errors.
func Parse(data []byte) (*Configuration, error) {
	var out Configuration
	if err := yaml.UnmarshalStrict(data, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &out, nil
}
