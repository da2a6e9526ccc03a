package gitlab

import (
	"context"
	"net/url"
	"strings"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const (
	defaultBaseURL = "https://gitlab.com"
	perPage        = 100
)

var (
	_ interfaces.CommitSource      = (*Provider)(nil)
	_ interfaces.PullRequestLinker = (*Provider)(nil)
)

// Provider implements the CommitSource interface for GitLab.
// GitLab does not expose git notes through its API, so notes are not read.
type Provider struct {
	client    *gitlab.Client
	config    model.ProviderConfig
	projectID string
	baseURL   string
	logger    logze.Logger
}

// New creates a new GitLab provider
func New(config model.ProviderConfig) (*Provider, error) {
	if config.Token == "" {
		return nil, errm.New("GitLab token is required")
	}
	if config.Owner == "" || config.Repo == "" {
		return nil, errm.New("GitLab owner (namespace) and repo are required")
	}
	logger := logze.With("provider", "gitlab", "component", "provider")

	baseURL := strings.TrimSuffix(lang.Check(config.BaseURL, defaultBaseURL), "/")

	client, err := gitlab.NewClient(config.Token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, errm.Wrap(err, "failed to create GitLab client")
	}

	return &Provider{
		client:    client,
		config:    config,
		projectID: config.ProjectID(),
		baseURL:   baseURL,
		logger:    logger,
	}, nil
}

// GetComparison compares head against base. GitLab reports only the commits
// of one direction, so the opposite direction is requested for the behind count.
func (p *Provider) GetComparison(ctx context.Context, base, head string) (*model.Comparison, error) {
	forward, _, err := p.client.Repositories.Compare(p.projectID, &gitlab.CompareOptions{
		From: gitlab.Ptr(base),
		To:   gitlab.Ptr(head),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, errm.Wrap(err, "failed to compare commits", "base", base, "head", head)
	}

	backward, _, err := p.client.Repositories.Compare(p.projectID, &gitlab.CompareOptions{
		From: gitlab.Ptr(head),
		To:   gitlab.Ptr(base),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, errm.Wrap(err, "failed to compare commits", "base", head, "head", base)
	}

	out := &model.Comparison{
		AheadBy:  len(forward.Commits),
		BehindBy: len(backward.Commits),
		Order:    model.OrderOldestFirst,
		Commits:  make([]model.CommitRef, 0, len(forward.Commits)),
	}
	out.Status = model.StatusFromCounts(out.AheadBy, out.BehindBy)

	for _, commit := range forward.Commits {
		out.Commits = append(out.Commits, p.convertCommit(commit))
	}

	return out, nil
}

// GetCommitDetail returns the commit with the names of all changed files
func (p *Provider) GetCommitDetail(ctx context.Context, ref model.CommitRef) (*model.CommitDetail, error) {
	detail := &model.CommitDetail{SHA: ref.SHA, Message: ref.Message}
	page := 1

	for {
		opts := &gitlab.GetCommitDiffOptions{
			ListOptions: gitlab.ListOptions{
				Page:    page,
				PerPage: perPage,
			},
		}

		diffs, resp, err := p.client.Commits.GetCommitDiff(p.projectID, ref.SHA, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, errm.Wrap(err, "failed to get commit diff from GitLab", "sha", ref.SHA)
		}

		for _, diff := range diffs {
			detail.Files = append(detail.Files, lang.Check(diff.NewPath, diff.OldPath))
		}

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return detail, nil
}

// PullRequestURL returns the browser link of a merge request
func (p *Provider) PullRequestURL(number string) string {
	return p.baseURL + "/" + p.projectID + "/-/merge_requests/" + number
}

func (p *Provider) convertCommit(commit *gitlab.Commit) model.CommitRef {
	return model.CommitRef{
		SHA:     commit.ID,
		Message: commit.Message,
		URL:     p.baseURL + "/api/v4/projects/" + url.PathEscape(p.projectID) + "/repository/commits/" + commit.ID,
		HTMLURL: commit.WebURL,
	}
}
