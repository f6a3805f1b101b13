// Package config handles the ads2bib preference file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "ads2bib"
	// ConfigFile is the preference file name.
	ConfigFile = "config.yml"
	// LogFile is the log file kept beside the preferences.
	LogFile = "ads2bib.log"
	// StoreFile is the reference store database kept beside the
	// preferences.
	StoreFile = "refs.db"

	// TokenSentinel marks an unset API token; the environment is
	// consulted instead.
	TokenSentinel = "dev_key"
)

// Proxy holds the SSH relay target. All three values are required
// together to activate the relay.
type Proxy struct {
	SSHUser   string `yaml:"ssh_user"`
	SSHServer string `yaml:"ssh_server"`
	SSHPort   int    `yaml:"ssh_port"`
}

// Options holds behavior toggles.
type Options struct {
	DownloadPDF bool   `yaml:"download_pdf"`
	PDFReader   string `yaml:"pdf_reader"`
	Debug       bool   `yaml:"debug"`
}

// Config is the persisted preference set.
type Config struct {
	ADSMirror string  `yaml:"ads_mirror"`
	ADSToken  string  `yaml:"ads_token"`
	Proxy     Proxy   `yaml:"proxy"`
	Options   Options `yaml:"options"`
}

// Default returns the built-in preference values.
func Default() *Config {
	return &Config{
		ADSMirror: "api.adsabs.harvard.edu",
		ADSToken:  TokenSentinel,
		Proxy:     Proxy{SSHPort: 22},
		Options:   Options{DownloadPDF: true},
	}
}

// Dir returns the preference directory. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/ads2bib.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir)
}

// Path returns the preference file path.
func Path() string {
	return filepath.Join(Dir(), ConfigFile)
}

// LogPath returns the log file path.
func LogPath() string {
	return filepath.Join(Dir(), LogFile)
}

// StorePath returns the reference store database path.
func StorePath() string {
	return filepath.Join(Dir(), StoreFile)
}

// Load reads the preference file, writing defaults on first run.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads preferences from an explicit path, creating the file
// with defaults when it does not exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.SaveTo(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the preferences to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the preferences to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Token resolves the API token: the configured value unless it is the
// sentinel, otherwise the ADS_API_TOKEN environment variable.
func (c *Config) Token() string {
	if c.ADSToken != "" && c.ADSToken != TokenSentinel {
		return c.ADSToken
	}
	return os.Getenv("ADS_API_TOKEN")
}

// APIBaseURL returns the ADS API base URL for the configured mirror.
func (c *Config) APIBaseURL() string {
	return "https://" + c.ADSMirror + "/v1"
}

// RelayEnabled reports whether the SSH relay is fully configured:
// user, server and port must all be present.
func (c *Config) RelayEnabled() bool {
	return unset(c.Proxy.SSHUser) != "" && unset(c.Proxy.SSHServer) != "" && c.Proxy.SSHPort > 0
}

// unset treats the legacy "None" placeholder as empty.
func unset(v string) string {
	if v == "None" {
		return ""
	}
	return v
}
