package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type ConfigLinkhut struct {
	BaseURL  string `koanf:"base_url" validate:"required,http_url"`
	TokenEnv string `koanf:"token_env" validate:"required"`
}

type ConfigLinkPreview struct {
	BaseURL string `koanf:"base_url" validate:"required,http_url"`
	KeyEnv  string `koanf:"key_env" validate:"required"`
}

type ConfigHTTP struct {
	Timeout time.Duration `koanf:"timeout" validate:"min=1s,max=5m"`
}

// ConfigBookmarks holds the listing sizes used when the caller gives none.
type ConfigBookmarks struct {
	RecentCount      int `koanf:"recent_count" validate:"min=1"`
	ReadingListCount int `koanf:"reading_list_count" validate:"min=1"`
}

// Config holds where the services live and which environment variables carry
// their secrets. The secrets themselves never come from the file.
type Config struct {
	Linkhut      ConfigLinkhut     `koanf:"linkhut"`
	LinkPreview  ConfigLinkPreview `koanf:"linkpreview"`
	HTTP         ConfigHTTP        `koanf:"http"`
	Bookmarks    ConfigBookmarks   `koanf:"bookmarks"`
	LogLevel     string            `koanf:"log_level" validate:"oneof=error warn info debug"`
	LogPretty    bool              `koanf:"log_pretty"`
	SecretKeyEnv string            `koanf:"secret_key_env"`
}

func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return fmt.Errorf("configuration validation failed: %v", validationErrors)
	}

	return err
}

// Load reads defaults, then the YAML file at path if path is non-empty.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	parser := yaml.Parser()

	if err := setDefaultValues(k); err != nil {
		return nil, err
	}

	if path != "" && !optionalMissing(path) {
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPath is read only if it exists.
const DefaultPath = "./linkhut.yaml"

func optionalMissing(path string) bool {
	if path != DefaultPath {
		return false
	}
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}

func setDefaultValues(k *koanf.Koanf) error {
	return k.Load(confmap.Provider(map[string]any{
		"linkhut.base_url":             "https://api.ln.ht",
		"linkhut.token_env":            "LH_PAT",
		"linkpreview.base_url":         "https://api.linkpreview.net",
		"linkpreview.key_env":          "LINK_PREVIEW_API_KEY",
		"http.timeout":                 "30s",
		"bookmarks.recent_count":       15,
		"bookmarks.reading_list_count": 5,
		"log_level":                    "error",
		"log_pretty":                   false,
		"secret_key_env":               "LINKHUT_SECRET_KEY",
	}, "."), nil)
}
