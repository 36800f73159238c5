// Package fs provides utility functions for file system operations.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsFile returns true if path is a file.
// If the path does not exist an error is returned.
func IsFile(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return !fi.IsDir(), nil
}

// FileExists returns true if path exists and is a file.
func FileExists(path string) bool {
	ret, _ := IsFile(path)

	return ret
}

// IsDir returns true if the path is a directory.
// If the path does not exist an error is returned.
func IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return fi.IsDir(), nil
}

// DirsExist returns an error if one of the paths does not exist or is not a
// directory.
func DirsExist(paths ...string) error {
	for _, path := range paths {
		isDir, err := IsDir(path)
		if err != nil {
			return fmt.Errorf("%q: %w", path, err)
		}

		if !isDir {
			return fmt.Errorf("%q is not a directory", path)
		}
	}

	return nil
}

// FindFileInParentDirs searches for a file by name in startPath and each of
// its parent directories, down to the filesystem root.
// It returns the path of the first found file.
func FindFileInParentDirs(startPath, filename string) (string, error) {
	searchDir := startPath

	for {
		p := filepath.Join(searchDir, filename)

		_, err := os.Stat(p)
		if err == nil {
			abs, err := filepath.Abs(p)
			if err != nil {
				return "", fmt.Errorf("could not get absolute path of %v: %w", p, err)
			}

			return abs, nil
		}

		// TODO: is this portable?
		if searchDir == "/" {
			return "", os.ErrNotExist
		}

		searchDir = filepath.Join(searchDir, "..")
	}
}

// FindFilesInSubDir returns all directories that contain filename that are in
// searchDir. The function descends up to maxdepth levels of directories below
// searchDir.
func FindFilesInSubDir(searchDir, filename string, maxdepth int) ([]string, error) {
	var result []string
	glob := ""

	for i := 0; i <= maxdepth; i++ {
		globPath := filepath.Join(searchDir, glob, filename)

		matches, err := filepath.Glob(globPath)
		if err != nil {
			return nil, err
		}

		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("could not get absolute path of %s: %w", m, err)
			}

			result = append(result, abs)
		}

		glob += "*/"
	}

	return result, nil
}

// AbsPaths ensures that all elements in paths are absolute paths.
// If an element is not an absolute path, it is joined with rootPath.
func AbsPaths(rootPath string, paths []string) []string {
	result := make([]string, len(paths))

	for i, p := range paths {
		if filepath.IsAbs(p) {
			result[i] = p
			continue
		}

		result[i] = filepath.Join(rootPath, p)
	}

	return result
}

// FileSize returns the size of a file in bytes.
func FileSize(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return -1, err
	}

	return stat.Size(), nil
}

// Mkdir creates the directory path and all its parents if they do not exist.
func Mkdir(path string) error {
	return os.MkdirAll(path, os.FileMode(0o775))
}

// RealPath resolves all symlinks in path and returns the absolute path.
func RealPath(path string) (string, error) {
	path, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}

	return filepath.Abs(path)
}
