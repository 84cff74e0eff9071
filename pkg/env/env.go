// Package env reads raw process environment values. Structured configuration
// goes through envconfig; this helper covers the few knobs, such as the log
// format, that are needed before the config is loaded.
package env

import (
	"os"
	"strings"
)

// Get returns the named variable, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
