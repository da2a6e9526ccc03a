package jira

import (
	"strings"
	"time"

	"github.com/maxbolgarin/lang"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultBatchSize = 100
	defaultUserAgent = "shipcheck"
)

// Config represents Jira client configuration. User and Token are optional
// for instances that allow anonymous read access.
type Config struct {
	BaseURL   string        `yaml:"base_url" env:"JIRA_BASE_URL"`
	User      string        `yaml:"user" env:"JIRA_USER"`
	Token     string        `yaml:"token" env:"JIRA_TOKEN"`
	ProxyURL  string        `yaml:"proxy_url" env:"JIRA_PROXY_URL"`
	UserAgent string        `yaml:"user_agent" env:"JIRA_USER_AGENT"`
	Timeout   time.Duration `yaml:"timeout" env:"JIRA_TIMEOUT"`
	BatchSize int           `yaml:"batch_size" env:"JIRA_BATCH_SIZE"`
}

func (c *Config) PrepareAndValidate() error {
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return errBaseURLRequired
	}
	c.Timeout = lang.Check(c.Timeout, defaultTimeout)
	c.BatchSize = lang.Check(c.BatchSize, defaultBatchSize)
	c.UserAgent = lang.Check(c.UserAgent, defaultUserAgent)
	if c.BatchSize < 0 {
		return errInvalidBatchSize
	}
	return nil
}
