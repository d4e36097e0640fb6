package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludes selects every markdown file below the documents root.
var DefaultIncludes = []string{"**/*.md"}

// DefaultExcludes are directories never listed.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/.*/**",
}

// GenerateOptions controls which files end up in a generated manifest.
type GenerateOptions struct {
	Include []string
	Exclude []string
}

// RootMarker prefixes generated paths so that the first folder below the
// documents root becomes the section.
const RootMarker = "."

// Generate walks fsys and returns the paths of the files matching the
// include globs and none of the exclude globs, in manifest order. Globs are
// matched against the path relative to the root; the returned paths carry
// the RootMarker segment.
func Generate(fsys fs.FS, opts GenerateOptions) ([]string, error) {
	include := opts.Include
	if len(include) == 0 {
		include = DefaultIncludes
	}
	exclude := append(append([]string{}, DefaultExcludes...), opts.Exclude...)

	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob %q", p)
		}
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, Ext) {
			return nil
		}
		if matchesAny(path, include) && !matchesAny(path, exclude) {
			paths = append(paths, RootMarker+"/"+path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk documents: %w", err)
	}
	return New(paths).Paths(), nil
}

// WriteFile generates the manifest for dir and writes it as JSON to out.
func WriteFile(dir, out string, opts GenerateOptions) (int, error) {
	paths, err := Generate(os.DirFS(dir), opts)
	if err != nil {
		return 0, err
	}
	if paths == nil {
		paths = []string{}
	}
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		return 0, fmt.Errorf("write manifest %s: %w", out, err)
	}
	return len(paths), nil
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
