package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveFile sets key to value in the YAML file at path, keeping other keys.
// The file and its directory are created if missing.
func SaveFile(path, key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s",
			key, strings.Join(Keys, ", "))
	}

	existing, err := readYAMLMap(path)
	if err != nil {
		return err
	}
	existing[key] = parseValue(value)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveGlobal sets key in ~/.config/<globalConfigDir>/config.yaml.
func SaveGlobal(globalConfigDir, key, value string) error {
	if globalConfigDir == "" {
		return fmt.Errorf("global config directory not configured")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return SaveFile(filepath.Join(home, ".config", globalConfigDir, "config.yaml"), key, value)
}

// SaveLocal sets key in dir/<localConfigName>.
func SaveLocal(dir, localConfigName, key, value string) error {
	if dir == "" {
		return fmt.Errorf("local config directory not set")
	}
	if localConfigName == "" {
		return fmt.Errorf("local config name not configured")
	}
	return SaveFile(filepath.Join(dir, localConfigName), key, value)
}

// DeleteKey removes key from the YAML file at path. A missing file is not an error.
func DeleteKey(path, key string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	existing, err := readYAMLMap(path)
	if err != nil {
		return err
	}
	delete(existing, key)

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readYAMLMap(path string) (map[string]any, error) {
	existing := make(map[string]any)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return existing, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &existing); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if existing == nil {
		existing = make(map[string]any)
	}
	return existing, nil
}

// parseValue converts string values to appropriate types for YAML.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
