package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// WithinDir resolves name against dir and returns its absolute path. Names
// that resolve outside dir, through ".." or an absolute path, are rejected.
func WithinDir(name, dir string) (string, error) {
	target := name
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}

	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside %q", name, dir)
	}
	return abs, nil
}
