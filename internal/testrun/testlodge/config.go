package testlodge

import (
	"strings"

	"github.com/maxbolgarin/lang"
)

const defaultBaseURL = "https://api.testlodge.com"

// Config represents TestLodge client configuration
type Config struct {
	BaseURL   string `yaml:"base_url" env:"TESTLODGE_BASE_URL"`
	Email     string `yaml:"email" env:"TESTLODGE_USER_EMAIL"`
	Token     string `yaml:"token" env:"TESTLODGE_AUTH_TOKEN"`
	AccountID string `yaml:"account_id" env:"TESTLODGE_ACCOUNT_ID"`
	ProjectID string `yaml:"project_id" env:"TESTLODGE_PROJECT_ID"`
}

func (c *Config) PrepareAndValidate() error {
	c.BaseURL = strings.TrimSuffix(lang.Check(strings.TrimSpace(c.BaseURL), defaultBaseURL), "/")

	if c.Email == "" || c.Token == "" {
		return errCredentialsRequired
	}
	if c.AccountID == "" || c.ProjectID == "" {
		return errProjectRequired
	}
	return nil
}
