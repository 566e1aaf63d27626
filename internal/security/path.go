package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateManifestDir validates that a manifest directory path is safe to
// read from or write to. Absolute paths are allowed (operators point the
// emulator at a state directory), but traversal components are not.
func ValidateManifestDir(path string) error {
	if path == "" {
		return fmt.Errorf("manifest directory cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	// Reject any traversal that survives cleaning
	for _, part := range strings.Split(cleanPath, string(filepath.Separator)) {
		if part == ".." {
			return fmt.Errorf("path contains directory traversal: %s", path)
		}
	}

	return nil
}
