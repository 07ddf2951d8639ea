// Package config loads tada's settings: defaults, then ~/.tada/config.yaml,
// then TADA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix      = "TADA"
	configFileName = "config.yaml"
)

type Config struct {
	APIURL    string        `mapstructure:"api_url" yaml:"api_url" envconfig:"API_URL"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" envconfig:"TIMEOUT"`
	LogLevel  string        `mapstructure:"log_level" yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFile   string        `mapstructure:"log_file" yaml:"log_file" envconfig:"LOG_FILE"`
	LogFormat string        `mapstructure:"log_format" yaml:"log_format" envconfig:"LOG_FORMAT"`
	Theme     string        `mapstructure:"theme" yaml:"theme" envconfig:"THEME"`
	Project   int           `mapstructure:"project" yaml:"project,omitempty" envconfig:"PROJECT"`

	// Token only ever comes from TADA_TOKEN; it is never read from or written to the file.
	Token string `mapstructure:"-" yaml:"-" envconfig:"TOKEN"`

	// Dir holds credentials, the default log file and the config file.
	Dir string `mapstructure:"-" yaml:"-" ignored:"true"`
}

// Default returns the built-in settings rooted at dir.
func Default(dir string) *Config {
	return &Config{
		APIURL:    "http://localhost:4300",
		Timeout:   10 * time.Second,
		LogLevel:  "info",
		LogFile:   filepath.Join(dir, "tada.log"),
		LogFormat: "text",
		Theme:     "classic",
		Dir:       dir,
	}
}

// Path is the config file location inside dir.
func Path(dir string) string { return filepath.Join(dir, configFileName) }

// Load builds the effective config. An empty path means Path(dir); a missing
// file is fine, a broken one is not.
func Load(dir, path string) (*Config, error) {
	cfg := Default(dir)
	if path == "" {
		path = Path(dir)
	}

	if err := loadFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// WriteDefault creates a config file with the built-in settings. It refuses to
// overwrite an existing file.
func WriteDefault(dir, path string) (string, error) {
	if path == "" {
		path = Path(dir)
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return path, fmt.Errorf("mkdir: %w", err)
	}
	b, err := Default(dir).YAML()
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return path, fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// YAML renders the config as it would appear in the file.
func (c *Config) YAML() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return b, nil
}
