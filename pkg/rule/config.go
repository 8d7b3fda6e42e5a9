// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleConfig is the base configuration for all rules.
// This is typically loaded from the YAML rule file.
type RuleConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name,omitempty" json:"name,omitempty"`
	Type       string                 `yaml:"type" json:"type"` // e.g., "sleep_deficit"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty" json:"parameters,omitempty"` // Rule-specific thresholds
}

// File is the rule file layout.
type File struct {
	Rules []RuleConfig `yaml:"rules"`
}

// GetInt retrieves an integer value from parameters with a default.
func (c *RuleConfig) GetInt(key string, defaultValue int) int {
	switch v := c.Parameters[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return defaultValue
}

// GetFloat retrieves a float value from parameters with a default.
// Integer literals in YAML decode as int and are accepted.
func (c *RuleConfig) GetFloat(key string, defaultValue float64) float64 {
	switch v := c.Parameters[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return defaultValue
}

// LoadConfig loads rule configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates rule configuration.
func ParseConfig(data []byte) (*File, error) {
	expanded := expandEnvVars(string(data))

	var file File
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rule file: %w", err)
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule file: %w", err)
	}

	return &file, nil
}

// Validate checks the rule file for empty and duplicate IDs.
func (f *File) Validate() error {
	ids := make(map[string]bool)
	for _, r := range f.Rules {
		if r.ID == "" {
			return fmt.Errorf("rule with empty ID found")
		}
		if ids[r.ID] {
			return fmt.Errorf("duplicate rule ID: %s", r.ID)
		}
		ids[r.ID] = true

		if r.Type == "" {
			return fmt.Errorf("rule %s has empty type", r.ID)
		}
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
