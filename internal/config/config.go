// Package config loads CLI settings from a YAML file, a .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	sdk "github.com/luminolabs/lumino/sdk/go"
)

// Environment variables read by Load.
const (
	EnvAPIKey  = "LUMINO_API_KEY"
	EnvBaseURL = "LUMINO_BASE_URL"
	EnvOutput  = "LUMINO_OUTPUT"
	EnvDebug   = "LUMINO_DEBUG"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the CLI settings.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Output  string `yaml:"output"`
	Debug   bool   `yaml:"debug"`
}

// Options selects the files Load reads.
type Options struct {
	// ConfigPath is the YAML file. Empty means DefaultPath().
	ConfigPath string
	// RequireConfig fails Load when ConfigPath does not exist.
	RequireConfig bool
	// EnvFile is an optional dotenv file. Empty means ".env".
	EnvFile string
}

// DefaultPath returns ~/.lumino/config.yaml, or "" when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lumino", "config.yaml")
}

// Load merges, lowest precedence first: the YAML file, the dotenv file and the
// process environment. The result is validated.
func Load(opts Options) (*Config, error) {
	cfg := &Config{}

	path := opts.ConfigPath
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || opts.RequireConfig {
				return nil, err
			}
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}
	if err := cfg.apply(func(key string) (string, bool) {
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}
	if err := cfg.apply(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) apply(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvOutput); ok && v != "" {
		c.Output = v
	}
	if v, ok := lookup(EnvDebug); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.Debug = debug
	}
	return nil
}

// Validate fills defaults and checks required fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = sdk.DefaultBaseURL
	}
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if c.Output == "" {
		c.Output = OutputJSON
	}
	if c.Output != OutputJSON && c.Output != OutputYAML {
		return fmt.Errorf("output must be %q or %q, got %q", OutputJSON, OutputYAML, c.Output)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("API key is required (set %s or api_key in the config file)", EnvAPIKey)
	}
	return nil
}
