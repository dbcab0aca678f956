package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/flowrecon/internal/config"
	"github.com/specialistvlad/flowrecon/internal/ctxlog"
	"github.com/specialistvlad/flowrecon/internal/fsutil"
)

const fileExt = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file among paths, descending into directories.
// Files are merged in the order found, so later examples replace earlier
// ones with the same id.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		if err := l.parseInto(ctx, parser, model, file, src); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "examples", len(model.Examples))
	return model, nil
}

// LoadFS parses every .hcl file in fsys in lexical order.
func (l *Loader) LoadFS(ctx context.Context, fsys fs.FS) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(fsys, ".", fileExt)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, p := range files {
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", p, err)
		}
		if err := l.parseInto(ctx, parser, model, p, src); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading from file system complete.", "examples", len(model.Examples))
	return model, nil
}

func (l *Loader) parseInto(ctx context.Context, parser *hclparse.Parser, model *config.Model, filename string, src []byte) error {
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	seen := make(map[string]struct{}, len(root.Examples))
	for _, block := range root.Examples {
		if _, dup := seen[block.ID]; dup {
			return fmt.Errorf("%s: example %q defined twice", filename, block.ID)
		}
		seen[block.ID] = struct{}{}

		ex, err := translateExample(ctx, block)
		if err != nil {
			return fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
		}
		ex.Source = filename
		model.PutExample(ex)
	}
	for _, sim := range root.Simulations {
		model.Merge(&config.Model{Simulation: translateSimulation(sim)})
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. Missing paths are skipped.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == fileExt {
				add(path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, fileExt)
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
