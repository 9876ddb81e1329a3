// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}
	return FindFilesByExtensions(rootPath, extension)
}

// FindFilesByExtensions is FindFilesByExtension for several extensions at
// once. Extensions are compared without regard to case and results are in
// lexical walk order.
func FindFilesByExtensions(rootPath string, extensions ...string) ([]string, error) {
	lower := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if ext == "" {
			panic("extension must not be empty")
		}
		lower = append(lower, strings.ToLower(ext))
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if slices.ContainsFunc(lower, func(ext string) bool { return strings.HasSuffix(name, ext) }) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
