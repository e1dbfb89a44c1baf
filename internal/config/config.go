package config

import (
	"encoding/json"
	"errors"
	"os"
)

// Config holds all application configuration
type Config struct {
	Router RouterConfig `json:"router"`
	Paths  PathsConfig  `json:"paths"`
	Log    LogConfig    `json:"log"`
}

type RouterConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	KnownHostsFile string `json:"known_hosts_file"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	LegacyCiphers  bool   `json:"legacy_ciphers"`
}

type PathsConfig struct {
	Root       string `json:"root"`        // configuration tree node
	Chain      string `json:"chain"`       // ebtables chain
	ShadowFile string `json:"shadow_file"` // router-side rule record
}

type LogConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

// Default returns the configuration for an HG180u router on its factory address
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a JSON file.
// A missing file is not an error; defaults are used instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	return &cfg, nil
}

// Set defaults if not specified
func (c *Config) setDefaults() {
	if c.Router.Host == "" {
		c.Router.Host = "192.168.1.1"
	}
	if c.Router.Port == 0 {
		c.Router.Port = 22
	}
	if c.Router.TimeoutSeconds == 0 {
		c.Router.TimeoutSeconds = 10
	}
	if c.Paths.Root == "" {
		c.Paths.Root = "InternetGatewayDevice.TimeRestriction"
	}
	if c.Paths.Chain == "" {
		c.Paths.Chain = "TIME_RESTRICT"
	}
	if c.Paths.ShadowFile == "" {
		c.Paths.ShadowFile = "/tmp/.timerestrict.rule"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
