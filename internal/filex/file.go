// Package filex contains filesystem helpers for local data files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates base/name with owner+group access and returns its path.
// An empty base means the working directory unless name is absolute.
// Existing directories are reused.
func EnsureDir(base, name string) (string, error) {
	if base == "" && !filepath.IsAbs(name) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		base = cwd
	}

	dir := filepath.Join(base, name)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// DataFile ensures the directory part of path exists and returns path
// unchanged. Relative paths resolve against the working directory.
func DataFile(path string) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." {
		return path, nil
	}
	if _, err := EnsureDir("", dir); err != nil {
		return "", err
	}
	return path, nil
}
