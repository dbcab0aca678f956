// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrEmptyExtension = errors.New("extension must not be empty")

// FindFiles walks root inside fsys and returns the slash-separated paths of
// all files ending with extension, in lexical order. Directories whose name
// starts with "." or "_" are not entered.
func FindFiles(fsys fs.FS, root, extension string) ([]string, error) {
	if extension == "" {
		return nil, ErrEmptyExtension
	}

	var files []string
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && isHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FindFilesByExtension is FindFiles on the operating system directory
// rootPath. Returned paths include rootPath.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	rel, err := FindFiles(os.DirFS(rootPath), ".", extension)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(rel))
	for i, p := range rel {
		files[i] = filepath.Join(rootPath, filepath.FromSlash(p))
	}
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
