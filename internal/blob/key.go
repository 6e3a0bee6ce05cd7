package blob

import (
	"fmt"
	"path"
	"strings"
)

// validateKey rejects keys that could escape the store root.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty object key")
	}
	if strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.Contains(key, "..") {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}

func joinURL(base, key string) string {
	if strings.HasSuffix(base, "/") {
		return base + key
	}
	return base + "/" + key
}
