package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of environment variables that override file
// settings.
const EnvPrefix = "TABLEGRID_"

// ApplyEnv overrides settings from environment variables of the form
// PREFIX_SECTION_KEY, for example TABLEGRID_GRID_FROZEN_ROWS=1 or
// TABLEGRID_LOG_LEVEL=debug. environ is in the form returned by
// os.Environ. Variables naming unknown settings are ignored. The result is
// validated.
func (c *Config) ApplyEnv(prefix string, environ []string) error {
	raw := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		sec, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, prefix)), "_")
		if !ok || key == "" {
			continue
		}
		m, _ := raw[sec].(map[string]any)
		if m == nil {
			m = make(map[string]any)
			raw[sec] = m
		}
		m[key] = parseEnvValue(value)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := c.apply(raw); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return c.Validate()
}

// parseEnvValue converts s to the TOML type it most likely stands for.
// Durations stay strings; the duration getter parses them.
func parseEnvValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
