package utils

import (
	"os"
	"strconv"
	"strings"
)

// lookup returns the trimmed value of an environment variable and whether it
// was set to something non-empty.
func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

// GetEnvAsBool parses a boolean environment variable. Accepts 1/true/yes and
// 0/false/no in any case; anything else falls back to the default.
func GetEnvAsBool(name string, def bool) bool {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}

// GetEnvAsInt parses an integer environment variable with a default.
func GetEnvAsInt(name string, def int) int {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// GetEnvAsFloat parses a float environment variable with a default.
func GetEnvAsFloat(name string, def float64) float64 {
	if v, ok := lookup(name); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// GetEnvAsSlice splits an environment variable on sep, trimming each
// element. An unset or empty variable yields the default slice.
func GetEnvAsSlice(name string, def []string, sep string) []string {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	parts := strings.Split(v, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
