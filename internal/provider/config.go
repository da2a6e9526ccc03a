package provider

import (
	"slices"
	"strings"

	"github.com/maxbolgarin/errm"
)

type ProviderType string

// Supported commit source types
const (
	GitLab ProviderType = "gitlab"
	GitHub ProviderType = "github"
	Local  ProviderType = "local"
)

var supportedProviderTypes = []ProviderType{GitLab, GitHub, Local}

// Config represents commit source configuration
type Config struct {
	Type    ProviderType `yaml:"type" env:"PROVIDER_TYPE"`
	BaseURL string       `yaml:"base_url" env:"PROVIDER_BASE_URL"`
	Token   string       `yaml:"token" env:"PROVIDER_TOKEN"`

	// Owner and Repo identify the repository on GitHub or GitLab
	Owner string `yaml:"owner" env:"PROVIDER_OWNER"`
	Repo  string `yaml:"repo" env:"PROVIDER_REPO"`

	// RepoPath is the path of a local clone for the local type
	RepoPath string `yaml:"repo_path" env:"PROVIDER_REPO_PATH"`
}

func (c *Config) PrepareAndValidate() error {
	c.Type = ProviderType(strings.ToLower(strings.TrimSpace(string(c.Type))))
	if c.Type == "" || !slices.Contains(supportedProviderTypes, c.Type) {
		return errm.New("invalid provider type: %s", c.Type)
	}

	if c.Type == Local {
		if c.RepoPath == "" {
			return errm.New("repo_path is required for local provider")
		}
		return nil
	}

	if c.Token == "" {
		return errm.New("token is required")
	}
	if c.Owner == "" || c.Repo == "" {
		return errm.New("owner and repo are required")
	}

	return nil
}
