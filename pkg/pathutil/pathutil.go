// Package pathutil provides safe path handling for document and config files.
package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateDataPath validates a path used for persisted documents. It rejects
// directory traversal and, when dataDir is non-empty, confines the path to
// that directory.
func ValidateDataPath(path, dataDir string) (string, error) {
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("path contains directory traversal pattern: %s", path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}

	if dataDir == "" {
		return absPath, nil
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return "", fmt.Errorf("getting absolute data directory: %w", err)
	}

	if !within(absPath, absDataDir) {
		return "", fmt.Errorf("path %s is not within data directory %s", path, dataDir)
	}

	return absPath, nil
}

// ValidateConfigPath validates a configuration file path. Config files are
// expected to be YAML files.
func ValidateConfigPath(path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("path contains directory traversal pattern: %s", path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	if ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("config file must have .yaml or .yml extension, got %s", ext)
	}

	return absPath, nil
}

// JoinAndValidate safely joins path components and ensures the result stays
// within baseDir.
func JoinAndValidate(baseDir string, elems ...string) (string, error) {
	for _, elem := range elems {
		if strings.Contains(elem, "..") {
			return "", fmt.Errorf("path element contains directory traversal: %s", elem)
		}
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("getting absolute base directory: %w", err)
	}

	absJoined, err := filepath.Abs(filepath.Join(append([]string{baseDir}, elems...)...))
	if err != nil {
		return "", fmt.Errorf("getting absolute joined path: %w", err)
	}

	if !within(absJoined, absBase) {
		return "", fmt.Errorf("joined path %s is not within base directory %s", absJoined, baseDir)
	}

	return absJoined, nil
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
