package provider

import (
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
	"github.com/maxbolgarin/shipcheck/internal/provider/github"
	"github.com/maxbolgarin/shipcheck/internal/provider/gitlab"
	"github.com/maxbolgarin/shipcheck/internal/provider/local"
)

// NewCommitSource creates a commit source based on the configuration
func NewCommitSource(cfg Config) (interfaces.CommitSource, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	cfgForProvider := model.ProviderConfig{
		BaseURL:  cfg.BaseURL,
		Token:    cfg.Token,
		Owner:    cfg.Owner,
		Repo:     cfg.Repo,
		RepoPath: cfg.RepoPath,
	}

	var provider interfaces.CommitSource
	var err error

	switch cfg.Type {
	case GitLab:
		provider, err = gitlab.New(cfgForProvider)
	case GitHub:
		provider, err = github.New(cfgForProvider)
	case Local:
		provider, err = local.New(cfgForProvider)
	default:
		return nil, erro.New("unsupported provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, erro.Wrap(err, "failed to create provider")
	}

	return provider, nil
}
