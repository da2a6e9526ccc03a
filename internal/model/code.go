package model

// ProviderConfig represents provider-specific configuration
type ProviderConfig struct {
	BaseURL  string
	Token    string
	Owner    string
	Repo     string
	RepoPath string
}

// ProjectID returns the "owner/repo" form used by hosted providers
func (c ProviderConfig) ProjectID() string {
	return c.Owner + "/" + c.Repo
}
