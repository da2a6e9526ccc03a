package github

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
	"golang.org/x/oauth2"
)

var (
	_ interfaces.CommitSource      = (*Provider)(nil)
	_ interfaces.NotesSource       = (*Provider)(nil)
	_ interfaces.PullRequestLinker = (*Provider)(nil)
)

const (
	defaultBaseURL = "https://github.com"
	notesRef       = "refs/notes/commits"
	perPage        = 100
)

// Provider implements the CommitSource interface for GitHub
type Provider struct {
	client *github.Client
	config model.ProviderConfig
	webURL string
	logger logze.Logger
}

// New creates a new GitHub provider
func New(config model.ProviderConfig) (*Provider, error) {
	if config.Token == "" {
		return nil, errm.New("GitHub token is required")
	}
	if config.Owner == "" || config.Repo == "" {
		return nil, errm.New("GitHub owner and repo are required")
	}
	log := logze.With("provider", "github", "repo", config.ProjectID())

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: config.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	client := github.NewClient(tc)
	webURL := defaultBaseURL

	// GitHub Enterprise
	if config.BaseURL != "" && config.BaseURL != defaultBaseURL {
		var err error
		client, err = github.NewClient(tc).WithEnterpriseURLs(config.BaseURL, config.BaseURL)
		if err != nil {
			return nil, errm.Wrap(err, "failed to create GitHub Enterprise client")
		}
		webURL = strings.TrimSuffix(strings.TrimSuffix(config.BaseURL, "/"), "/api/v3")
	}

	return &Provider{
		client: client,
		config: config,
		webURL: webURL,
		logger: log,
	}, nil
}

// GetComparison compares head against base using the three-dot compare API.
// Commits are returned oldest first.
func (p *Provider) GetComparison(ctx context.Context, base, head string) (*model.Comparison, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var out *model.Comparison
	for {
		cmp, resp, err := p.client.Repositories.CompareCommits(ctx, p.config.Owner, p.config.Repo, base, head, opts)
		if err != nil {
			return nil, errm.Wrap(err, "failed to compare commits", "base", base, "head", head)
		}

		if out == nil {
			out = &model.Comparison{
				Status:   model.ComparisonStatus(cmp.GetStatus()),
				AheadBy:  cmp.GetAheadBy(),
				BehindBy: cmp.GetBehindBy(),
				Order:    model.OrderOldestFirst,
				Commits:  make([]model.CommitRef, 0, cmp.GetAheadBy()),
			}
		}
		for _, commit := range cmp.Commits {
			out.Commits = append(out.Commits, convertCommit(commit))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// GetCommitDetail returns the commit with the names of all changed files
func (p *Provider) GetCommitDetail(ctx context.Context, ref model.CommitRef) (*model.CommitDetail, error) {
	opts := &github.ListOptions{PerPage: perPage}

	detail := &model.CommitDetail{SHA: ref.SHA, Message: ref.Message}
	for {
		commit, resp, err := p.client.Repositories.GetCommit(ctx, p.config.Owner, p.config.Repo, ref.SHA, opts)
		if err != nil {
			return nil, errm.Wrap(err, "failed to get commit", "sha", ref.SHA)
		}

		if detail.Message == "" {
			detail.Message = commit.GetCommit().GetMessage()
		}
		for _, file := range commit.Files {
			detail.Files = append(detail.Files, file.GetFilename())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return detail, nil
}

// GetNotes reads git notes from refs/notes/commits, keyed by annotated commit SHA.
// A repository without notes yields an empty map.
func (p *Provider) GetNotes(ctx context.Context) (map[string]string, error) {
	notes := make(map[string]string)

	ref, resp, err := p.client.Git.GetRef(ctx, p.config.Owner, p.config.Repo, notesRef)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			p.logger.Debug("no git notes in repository")
			return notes, nil
		}
		return nil, errm.Wrap(err, "failed to get notes ref")
	}

	commit, _, err := p.client.Git.GetCommit(ctx, p.config.Owner, p.config.Repo, ref.GetObject().GetSHA())
	if err != nil {
		return nil, errm.Wrap(err, "failed to get notes commit")
	}

	tree, _, err := p.client.Git.GetTree(ctx, p.config.Owner, p.config.Repo, commit.GetTree().GetSHA(), true)
	if err != nil {
		return nil, errm.Wrap(err, "failed to get notes tree")
	}

	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		content, _, err := p.client.Git.GetBlobRaw(ctx, p.config.Owner, p.config.Repo, entry.GetSHA())
		if err != nil {
			return nil, errm.Wrap(err, "failed to get note", "path", entry.GetPath())
		}
		// notes trees may fan out as ab/cdef...
		notes[strings.ReplaceAll(entry.GetPath(), "/", "")] = string(content)
	}

	return notes, nil
}

// PullRequestURL returns the browser link of a pull request
func (p *Provider) PullRequestURL(number string) string {
	return p.webURL + "/" + p.config.ProjectID() + "/pull/" + number
}

func convertCommit(commit *github.RepositoryCommit) model.CommitRef {
	return model.CommitRef{
		SHA:     commit.GetSHA(),
		Message: commit.GetCommit().GetMessage(),
		URL:     commit.GetURL(),
		HTMLURL: commit.GetHTMLURL(),
	}
}
