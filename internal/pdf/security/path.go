// Package security confines the files the server reads and writes to the
// configured directory.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator provides security validation for file paths
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a new path validator for the given directory. The
// directory does not have to exist yet; until it does, every path passes.
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	return &PathValidator{
		configuredDirectory: configuredDirectory,
	}, nil
}

// ValidatePath checks if a path is within the configured directory
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a null byte")
	}

	if !v.enforced() {
		return nil
	}

	isWithin, err := v.IsPathWithinDirectory(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !isWithin {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}

	return nil
}

// ValidateOutputPath checks that a file about to be written is a PDF inside
// the configured directory and does not overwrite the input
func (v *PathValidator) ValidateOutputPath(output, input string) error {
	if err := v.ValidatePath(output); err != nil {
		return err
	}

	if !strings.EqualFold(filepath.Ext(output), ".pdf") {
		return fmt.Errorf("output file must have a .pdf extension: %s", output)
	}

	absOutput, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if input != "" {
		absInput, err := filepath.Abs(input)
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}
		if filepath.Clean(absInput) == filepath.Clean(absOutput) {
			return fmt.Errorf("output path must differ from the input path: %s", output)
		}
	}

	if info, err := os.Stat(absOutput); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", output)
	}

	return nil
}

// IsPathWithinDirectory checks if a path is within the configured directory.
// Symlinks are resolved on both sides; the path and its target must both be
// inside.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	if !v.enforced() {
		return true, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	absConfigDir, err := filepath.Abs(v.configuredDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absConfigDir)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}

	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	within := func(p string) bool {
		return isUnder(p, cleanDir) || isUnder(p, realDir)
	}

	return within(cleanPath) && within(realPath), nil
}

// GetConfiguredDirectory returns the configured directory path
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.configuredDirectory
}

// ValidateDirectory checks if a directory path is within the configured
// directory. A directory that does not exist yet is accepted.
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	if err := v.ValidatePath(dirPath); err != nil {
		return err
	}

	if !v.enforced() {
		return nil
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}

	return nil
}

func (v *PathValidator) enforced() bool {
	_, err := os.Stat(v.configuredDirectory)
	return !os.IsNotExist(err)
}

func isUnder(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
