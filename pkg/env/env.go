package env

import (
	"os"
	"strings"
)

// Prefix namespaces the variables read outside envconfig.
const Prefix = "INVENTARIS_"

// Get looks up Prefix+key, then the bare key, and returns fallback when
// neither holds a non-blank value.
func Get(key, fallback string) string {
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
