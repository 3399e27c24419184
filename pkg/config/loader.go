package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/arrownav/pkg/errors"
)

// loadAndMerge overlays the YAML file at path onto cfg. Fields absent from
// the file keep their current values; a navigation.keys block replaces the
// bindings wholesale instead of merging per direction.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "reading config").WithContext("path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}
	if fieldSet(raw, "navigation", "keys") {
		cfg.Navigation.Keys = nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "decoding config").WithContext("path", path)
	}
	return nil
}

// fieldSet reports whether the nested key path exists in raw.
func fieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
