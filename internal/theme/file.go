package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore keeps the preference in a small YAML file, for the CLI.
type FileStore struct {
	path string
}

type fileState struct {
	DarkMode string `yaml:"dark-mode"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath is the preference file under the user config directory.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "mdview", "theme.yml"), nil
}

func (s *FileStore) Get() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var st fileState
	if err := yaml.Unmarshal(data, &st); err != nil || st.DarkMode == "" {
		return "", false
	}
	return st.DarkMode, true
}

func (s *FileStore) Set(value string) error {
	data, err := yaml.Marshal(fileState{DarkMode: value})
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create %s: %w", filepath.Dir(s.path), err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
