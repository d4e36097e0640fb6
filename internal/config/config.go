package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override: MDVIEW_PORT -> port.
const EnvPrefix = "MDVIEW_"

// Document sources.
const (
	SourceHTTP = "http"
	SourceDir  = "dir"
)

type Config struct {
	Port string `koanf:"port"`

	// Document source
	Source     string `koanf:"source"`
	BaseURL    string `koanf:"base_url"`
	DocsDir    string `koanf:"docs_dir"`
	DataFolder string `koanf:"data_folder"`
	Manifest   string `koanf:"manifest"`

	// FetchTimeout bounds a single manifest or document request.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// Viewer
	KeyMode     string `koanf:"key_mode"`
	MarginLeft  string `koanf:"margin_left"`
	MarginRight string `koanf:"margin_right"`
	LightStyle  string `koanf:"light_style"`
	DarkStyle   string `koanf:"dark_style"`

	// Sessions
	SessionTTL time.Duration `koanf:"session_ttl"`

	CORSOrigins []string `koanf:"cors_origins"`

	LogLevel string `koanf:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Port:         "8090",
		Source:       SourceDir,
		DocsDir:      ".",
		DataFolder:   "md/",
		Manifest:     "items.json",
		FetchTimeout: 15 * time.Second,
		KeyMode:      "index",
		MarginLeft:   "260px",
		MarginRight:  "220px",
		LightStyle:   "github",
		DarkStyle:    "monokai",
		SessionTTL:   1 * time.Hour,
		CORSOrigins:  []string{"*"},
		LogLevel:     "info",
	}
}

// Load starts from Default, overlays the YAML file at path if it exists
// (an empty path skips it), then MDVIEW_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// listKeys are the keys whose environment value is a comma-separated list.
var listKeys = map[string]bool{
	"cors_origins": true,
}

func splitList(v string) []string {
	items := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	switch c.Source {
	case SourceHTTP:
		if c.BaseURL == "" {
			return fmt.Errorf("base_url is required for source %q", c.Source)
		}
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid base_url %q: must be an http or https URL", c.BaseURL)
		}
	case SourceDir:
		if c.DocsDir == "" {
			return fmt.Errorf("docs_dir is required for source %q", c.Source)
		}
	default:
		return fmt.Errorf("invalid source %q: must be http or dir", c.Source)
	}
	if c.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if c.KeyMode != "index" && c.KeyMode != "path" {
		return fmt.Errorf("invalid key_mode %q: must be index or path", c.KeyMode)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
