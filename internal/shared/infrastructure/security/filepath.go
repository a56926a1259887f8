// Package security validates user-supplied file paths.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dangerousChars contains shell metacharacters rejected in paths.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ValidateFilePath cleans a path, makes it absolute and resolves symlinks
// of an existing file. Paths with shell metacharacters are rejected.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("file path contains forbidden character %q: %s", char, path)
		}
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

// ValidateOutputPath validates a path that will be written. When extensions
// are given the path must end in one of them (case-insensitive).
func ValidateOutputPath(path string, extensions ...string) (string, error) {
	cleanPath, err := ValidateFilePath(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("output path is a directory: %s", path)
	}
	if len(extensions) == 0 {
		return cleanPath, nil
	}
	ext := strings.ToLower(filepath.Ext(cleanPath))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return cleanPath, nil
		}
	}
	return "", fmt.Errorf("output file must end in %s: %s", strings.Join(extensions, " or "), path)
}

// SafeCreate creates or truncates a file after validating its path.
func SafeCreate(path string, extensions ...string) (*os.File, error) {
	cleanPath, err := ValidateOutputPath(path, extensions...)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is validated above
	return os.Create(cleanPath)
}
