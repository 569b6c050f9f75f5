package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Setting is one flattened configuration value.
type Setting struct {
	Key   string
	Value any
}

// List returns every setting as a dotted key ("gate.exit_code"), sorted by key.
func (c *Config) List() ([]Setting, error) {
	flat, err := c.flatten()
	if err != nil {
		return nil, err
	}
	settings := make([]Setting, 0, len(flat))
	for _, k := range slices.Sorted(maps.Keys(flat)) {
		settings = append(settings, Setting{Key: k, Value: flat[k]})
	}
	return settings, nil
}

// Get returns the value of a dotted key.
func (c *Config) Get(key string) (any, error) {
	flat, err := c.flatten()
	if err != nil {
		return nil, err
	}
	v, ok := flat[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return v, nil
}

// flatten round-trips the config through YAML so keys match the file layout.
func (c *Config) flatten() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	var tree map[string]any
	if err = yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("reading config tree: %w", err)
	}
	flat := make(map[string]any)
	flattenInto(flat, "", tree)
	return flat, nil
}

func flattenInto(dst map[string]any, prefix string, node map[string]any) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flattenInto(dst, key, child)
			continue
		}
		dst[key] = v
	}
}
