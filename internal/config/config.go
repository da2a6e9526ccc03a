package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/shipcheck/internal/delta"
	"github.com/maxbolgarin/shipcheck/internal/provider"
	"github.com/maxbolgarin/shipcheck/internal/server"
	"github.com/maxbolgarin/shipcheck/internal/testrun/testlodge"
	"github.com/maxbolgarin/shipcheck/internal/tracker/jira"
)

// Config represents the main application configuration
type Config struct {
	Server    server.Config    `yaml:"server"`
	Provider  provider.Config  `yaml:"provider"`
	Jira      jira.Config      `yaml:"jira"`
	TestLodge testlodge.Config `yaml:"testlodge"`
	Delta     delta.Config     `yaml:"delta"`
}

// Load reads configuration from a YAML file and the environment.
// Environment variables override file values; without a path only the environment is read.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, errm.Wrap(err, "failed to read config from env")
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return Config{}, errm.Wrap(err, "config file is not available", "path", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, errm.Wrap(err, "failed to read config", "path", path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks settings that no single component can check on its own
func (c *Config) Validate() error {
	if c.Provider.Type == "" {
		return ErrMissingProviderType
	}
	if c.TestLodgeEnabled() && (c.TestLodge.Email == "" || c.TestLodge.Token == "") {
		return ErrMissingTestLodgeAuth
	}
	return nil
}

// JiraEnabled reports whether issue metadata should be fetched from Jira
func (c *Config) JiraEnabled() bool {
	return c.Jira.BaseURL != ""
}

// TestLodgeEnabled reports whether test run results should be fetched from TestLodge
func (c *Config) TestLodgeEnabled() bool {
	return c.TestLodge.AccountID != "" || c.TestLodge.ProjectID != ""
}
