package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxPathLength bounds accepted file paths.
const maxPathLength = 4096

// ValidateDataFile expands ~, makes path absolute and rejects traversal or
// control characters. When createDir is set, the parent directory is created.
func ValidateDataFile(path string, createDir bool) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > maxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", maxPathLength)
	}

	for _, char := range path {
		if char < 32 {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return "", fmt.Errorf("path contains directory traversal")
		}
	}

	if len(path) >= 2 && path[:2] == "~/" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory: %s", abs)
	}

	if createDir {
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return "", fmt.Errorf("creating directory: %w", err)
		}
	}

	return abs, nil
}
