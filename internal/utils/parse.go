// Package utils has the file and TOML helpers shared by config and corpus.
package utils

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into v. Keys v has no field for are
// reported and skipped.
func LoadTOMLFile(path string, v any) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		log.Warnf("TOML parsing error in %s: %v. Attempting partial recovery...", path, err)
		return err
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		keys := make([]string, len(extra))
		for i, k := range extra {
			keys[i] = k.String()
		}
		log.Warnf("Ignoring unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ParseTOMLWithRecovery decodes a TOML file into a generic map, for callers
// that salvage what they can from a file that does not fit their struct.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	data := make(map[string]any)
	if _, err := toml.DecodeFile(path, &data); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", path, err)
		return nil, err
	}
	return data, nil
}

// ExtractSection returns the table named name.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// ExtractInt returns an integer value. TOML integers decode as int64.
func ExtractInt(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// ExtractString returns a string value.
func ExtractString(data map[string]any, key string) (string, bool) {
	val, ok := data[key].(string)
	return val, ok
}
