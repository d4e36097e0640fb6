package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/dgallion1/mdview/internal/manifest"
)

// Dir reads documents from a file system. When no manifest file exists the
// manifest is generated from the tree.
type Dir struct {
	fsys     fs.FS
	manifest string
	opts     manifest.GenerateOptions
}

func NewDir(fsys fs.FS, manifestName string, opts manifest.GenerateOptions) *Dir {
	if manifestName == "" {
		manifestName = "items.json"
	}
	return &Dir{fsys: fsys, manifest: manifestName, opts: opts}
}

func (d *Dir) Manifest(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(d.fsys, d.manifest)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", d.manifest, err)
	}

	paths, err := manifest.Generate(d.fsys, d.opts)
	if err != nil {
		return nil, err
	}
	if paths == nil {
		paths = []string{}
	}
	return json.Marshal(paths)
}

func (d *Dir) Document(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Clean(strings.TrimPrefix(p, "/"))
	if !fs.ValidPath(name) {
		return nil, &StatusError{Target: p, Code: http.StatusNotFound}
	}
	data, err := fs.ReadFile(d.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &StatusError{Target: p, Code: http.StatusNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
