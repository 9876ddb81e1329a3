package hclconfig

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/voxview/internal/config"
	"github.com/specialistvlad/voxview/internal/ctxlog"
	"github.com/specialistvlad/voxview/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{environ: processEnviron}
}

// WithEnviron replaces the environment visible to `env.NAME` expressions.
func (l *Loader) WithEnviron(environ []string) *Loader {
	l.environ = func() []string { return environ }
	return l
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file under paths and merges it over
// config.Default.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.Default()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	environ := processEnviron
	if l.environ != nil {
		environ = l.environ
	}
	evalCtx := evalContext(environ())

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		if err := l.merge(model, &root); err != nil {
			return nil, fmt.Errorf("invalid configuration in %s: %w", file, err)
		}
		if attrs, _ := root.Remain.JustAttributes(); len(attrs) > 0 {
			for name, attr := range attrs {
				logger.Warn("Ignoring unknown top-level attribute.", "file", file, "name", name, "range", attr.Range.String())
			}
		}
	}

	logger.Debug("HCL loading complete.", "files", len(hclFiles), "readers", len(model.Readers), "store", model.StateStore.Driver)
	return model, nil
}

func (l *Loader) merge(model *config.Model, root *fileRoot) error {
	if s := root.Session; s != nil && s.DefaultModules != nil {
		model.Session.DefaultModules = *s.DefaultModules
	}
	for _, r := range root.Readers {
		ext := strings.ToLower(r.Extension)
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("reader extension %q must start with a dot", r.Extension)
		}
		model.Readers[ext] = r.Name
	}
	if s := root.StateStore; s != nil {
		switch s.Driver {
		case "fs", "memory", "s3":
		default:
			return fmt.Errorf("unknown state_store driver %q", s.Driver)
		}
		model.StateStore = &config.StateStore{
			Driver:   s.Driver,
			Path:     deref(s.Path, model.StateStore.Path),
			Bucket:   deref(s.Bucket, ""),
			Prefix:   deref(s.Prefix, ""),
			Region:   deref(s.Region, ""),
			Endpoint: deref(s.Endpoint, ""),

			PathStyle:       deref(s.PathStyle, false),
			AccessKeyID:     deref(s.AccessKeyID, ""),
			SecretAccessKey: deref(s.SecretAccessKey, ""),
		}
		if s.Driver == "s3" && model.StateStore.Bucket == "" {
			return fmt.Errorf("state_store driver \"s3\" requires a bucket")
		}
	}
	if r := root.RecentFiles; r != nil {
		model.RecentFiles.Path = deref(r.Path, model.RecentFiles.Path)
		model.RecentFiles.Limit = deref(r.Limit, model.RecentFiles.Limit)
		if model.RecentFiles.Limit < 1 {
			return fmt.Errorf("recent_files limit must be positive, got %d", model.RecentFiles.Limit)
		}
	}
	if b := root.Broadcast; b != nil {
		model.Broadcast.URL = b.URL
		model.Broadcast.Namespace = deref(b.Namespace, model.Broadcast.Namespace)
	}
	return nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found, each once.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if strings.HasSuffix(path, ".hcl") {
				add(path)
			}
			continue
		}
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return allFiles, nil
}
