package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override the config file
const EnvPrefix = "CAFE_"

// DefaultPath is the config file read when no path is given
const DefaultPath = "cafe.yaml"

// Config holds all configuration for the application
type Config struct {
	Port           string        `koanf:"port"`
	DataFile       string        `koanf:"data_file"`
	ViewsDir       string        `koanf:"views_dir"`
	PublicDir      string        `koanf:"public_dir"`
	BucketName     string        `koanf:"bucket_name"`
	GalleryPrefix  string        `koanf:"gallery_prefix"`
	PageSize       int           `koanf:"page_size"`
	NewsPageSize   int           `koanf:"news_page_size"`
	SessionTTL     time.Duration `koanf:"session_ttl"`
	WhatsAppNumber string        `koanf:"whatsapp_number"`
	LogLevel       string        `koanf:"log_level"`
	LogFormat      string        `koanf:"log_format"`
}

// ErrDataFileNotSet is returned when no site data file is configured
var ErrDataFileNotSet = errors.New("data_file not set")

// ErrInvalidPageSize is returned when a page size is not positive
var ErrInvalidPageSize = errors.New("page sizes must be positive")

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Port:           "8080",
		DataFile:       "data/site.yaml",
		ViewsDir:       "views",
		PublicDir:      "public",
		GalleryPrefix:  "gallery/",
		PageSize:       12,
		NewsPageSize:   3,
		SessionTTL:     30 * time.Minute,
		WhatsAppNumber: "919173515648",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads configuration from the YAML file at path, if it exists, and
// then overlays CAFE_* environment variables
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// CAFE_BUCKET_NAME -> bucket_name
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return ErrDataFileNotSet
	}
	if c.PageSize <= 0 || c.NewsPageSize <= 0 {
		return fmt.Errorf("%w: page_size=%d news_page_size=%d", ErrInvalidPageSize, c.PageSize, c.NewsPageSize)
	}
	return nil
}

// UsesBucket reports whether the gallery is read from Cloud Storage
func (c *Config) UsesBucket() bool {
	return c.BucketName != ""
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// PrintServerStartMessage prints a message when the server starts
func (c *Config) PrintServerStartMessage() {
	fmt.Printf("Starting server at port %s\n", c.Port)
	fmt.Printf("Site URL: http://localhost:%s/\n", c.Port)
	fmt.Printf("State API: http://localhost:%s/api/state\n", c.Port)
	if c.UsesBucket() {
		fmt.Printf("Gallery bucket: gs://%s/%s\n", c.BucketName, c.GalleryPrefix)
	}
}
