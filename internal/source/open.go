package source

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/manifest"
)

// Open builds the Source selected by cfg. For a directory source it also
// returns the documents tree; for a remote source docs is nil.
func Open(cfg *config.Config) (src Source, docs fs.FS, err error) {
	switch cfg.Source {
	case config.SourceHTTP:
		c, err := NewHTTP(HTTPOptions{
			BaseURL:    cfg.BaseURL,
			DataFolder: cfg.DataFolder,
			Manifest:   cfg.Manifest,
			Timeout:    cfg.FetchTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	case config.SourceDir:
		info, err := os.Stat(cfg.DocsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("docs dir: %w", err)
		}
		if !info.IsDir() {
			return nil, nil, fmt.Errorf("docs dir %s: not a directory", cfg.DocsDir)
		}
		docs := os.DirFS(cfg.DocsDir)
		return NewDir(docs, cfg.Manifest, manifest.GenerateOptions{}), docs, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
}
