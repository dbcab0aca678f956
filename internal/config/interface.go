package config

import (
	"context"
	"io/fs"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories and
	// translates it into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadFS does the same for every matching file of fsys, such as an
	// embedded directory.
	LoadFS(ctx context.Context, fsys fs.FS) (*Model, error)
}
