// Package glob resolves glob paths to files.
package glob

import (
	"fmt"

	"github.com/werktool/werk/internal/fs"
)

// Resolver resolves a glob path to files. The functionality is the same than
// filepath.Glob() with the addition that '**' is supported to match files and
// directories recursively.
type Resolver struct{}

// Resolve resolves globPath to file paths.
// If globPath doesn't match any files an empty []string and a nil error is
// returned.
func (r *Resolver) Resolve(globPath string) ([]string, error) {
	paths, err := fs.FileGlob(globPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %q failed: %w", globPath, err)
	}

	return paths, nil
}

// Matches returns true and the matching pattern, if a pattern in patterns
// matches path. If none matches, false and an empty string is returned.
// If a pattern is malformed an error is returned.
func (r *Resolver) Matches(path string, patterns []string) (bool, string, error) {
	for _, pattern := range patterns {
		match, err := fs.MatchGlob(pattern, path)
		if err != nil {
			return false, "", fmt.Errorf("matching pattern %q with path %q failed: %w", pattern, path, err)
		}

		if match {
			return true, pattern, nil
		}
	}

	return false, "", nil
}
