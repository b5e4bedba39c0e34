package config

import "fmt"

// RequireString returns the string value of key in a map-shaped document.
// It returns an error if the key is missing, not a string, or empty.
func RequireString(m map[string]any, key string) (string, error) {
	val, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing required field: %s", key)
	}
	str, ok := val.(string)
	if !ok || str == "" {
		return "", fmt.Errorf("field %s must be non-empty string", key)
	}
	return str, nil
}

// OptionalString returns the string value of key, or def when the key is
// missing, empty, or not a string.
func OptionalString(m map[string]any, key, def string) string {
	if val, ok := m[key].(string); ok && val != "" {
		return val
	}
	return def
}

// OptionalInt returns the int value of key, or def when the key is missing or
// not a number. YAML decodes integers as int and JSON as float64.
func OptionalInt(m map[string]any, key string, def int) int {
	switch val := m[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	}
	return def
}

// OptionalMap returns the nested map stored under key, or nil.
func OptionalMap(m map[string]any, key string) map[string]any {
	if val, ok := m[key].(map[string]any); ok {
		return val
	}
	return nil
}
