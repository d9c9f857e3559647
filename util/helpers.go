// Package util provides utility functions for the backend: environment lookups,
// timestamp parsing, CVSS scoring and the shared logger.
//
//revive:disable-next-line:var-naming
package util

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// GetEnvInt returns the env var parsed as an int, or defVal when unset.
func GetEnvInt(key string, defVal int) (int, error) {
	val, ex := os.LookupEnv(key)
	if !ex || IsEmpty(val) {
		return defVal, nil
	}
	return strconv.Atoi(strings.TrimSpace(val))
}

// GetEnvDuration returns the env var parsed with time.ParseDuration, or defVal when unset.
func GetEnvDuration(key string, defVal time.Duration) (time.Duration, error) {
	val, ex := os.LookupEnv(key)
	if !ex || IsEmpty(val) {
		return defVal, nil
	}
	return time.ParseDuration(strings.TrimSpace(val))
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsNotEmpty checks if a string is not empty
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// GetStringOrDefault returns value unless it is blank
func GetStringOrDefault(value, defaultValue string) string {
	if IsEmpty(value) {
		return defaultValue
	}
	return value
}

// Truncate shortens s to at most limit runes, appending "..." when it was cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit < 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
