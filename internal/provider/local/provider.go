package local

import (
	"context"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
)

const notesRef = plumbing.ReferenceName("refs/notes/commits")

var (
	_ interfaces.CommitSource = (*Provider)(nil)
	_ interfaces.NotesSource  = (*Provider)(nil)
)

// Provider reads commits from a repository on disk
type Provider struct {
	repo   *git.Repository
	config model.ProviderConfig
	logger logze.Logger

	// guards repo, go-git object storage is not safe for concurrent use
	mu sync.Mutex
}

// New opens the repository at config.RepoPath
func New(config model.ProviderConfig) (*Provider, error) {
	if config.RepoPath == "" {
		return nil, errm.New("repository path is required")
	}

	repo, err := git.PlainOpen(config.RepoPath)
	if err != nil {
		return nil, errm.Wrap(err, "failed to open repository", "path", config.RepoPath)
	}

	return &Provider{
		repo:   repo,
		config: config,
		logger: logze.With("provider", "local", "path", config.RepoPath),
	}, nil
}

// GetComparison returns commits reachable from head and not from base, newest first
func (p *Provider) GetComparison(ctx context.Context, base, head string) (*model.Comparison, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	baseCommits, err := p.ancestors(ctx, base)
	if err != nil {
		return nil, err
	}
	headCommits, err := p.ancestors(ctx, head)
	if err != nil {
		return nil, err
	}

	inBase := make(map[plumbing.Hash]struct{}, len(baseCommits))
	for _, commit := range baseCommits {
		inBase[commit.Hash] = struct{}{}
	}
	inHead := make(map[plumbing.Hash]struct{}, len(headCommits))
	for _, commit := range headCommits {
		inHead[commit.Hash] = struct{}{}
	}

	out := &model.Comparison{Order: model.OrderNewestFirst, Commits: []model.CommitRef{}}
	for _, commit := range headCommits {
		if _, ok := inBase[commit.Hash]; ok {
			continue
		}
		out.Commits = append(out.Commits, model.CommitRef{
			SHA:     commit.Hash.String(),
			Message: strings.TrimRight(commit.Message, "\n"),
		})
	}
	for _, commit := range baseCommits {
		if _, ok := inHead[commit.Hash]; !ok {
			out.BehindBy++
		}
	}
	out.AheadBy = len(out.Commits)
	out.Status = model.StatusFromCounts(out.AheadBy, out.BehindBy)

	return out, nil
}

// GetCommitDetail returns the commit with the names of all changed files.
// Each call reads through its own repository handle so details load in parallel.
func (p *Provider) GetCommitDetail(ctx context.Context, ref model.CommitRef) (*model.CommitDetail, error) {
	repo, err := git.PlainOpen(p.config.RepoPath)
	if err != nil {
		return nil, errm.Wrap(err, "failed to open repository", "path", p.config.RepoPath)
	}

	commit, err := repo.CommitObject(plumbing.NewHash(ref.SHA))
	if err != nil {
		return nil, errm.Wrap(err, "failed to get commit", "sha", ref.SHA)
	}

	stats, err := commit.StatsContext(ctx)
	if err != nil {
		return nil, errm.Wrap(err, "failed to get commit stats", "sha", ref.SHA)
	}

	detail := &model.CommitDetail{
		SHA:     ref.SHA,
		Message: strings.TrimRight(commit.Message, "\n"),
		Files:   make([]string, 0, len(stats)),
	}
	for _, stat := range stats {
		detail.Files = append(detail.Files, stat.Name)
	}

	return detail, nil
}

// GetNotes reads git notes from refs/notes/commits, keyed by annotated commit SHA
func (p *Provider) GetNotes(ctx context.Context) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	notes := make(map[string]string)

	ref, err := p.repo.Reference(notesRef, true)
	if err != nil {
		if errm.Is(err, plumbing.ErrReferenceNotFound) {
			p.logger.Debug("no git notes in repository")
			return notes, nil
		}
		return nil, errm.Wrap(err, "failed to get notes ref")
	}

	commit, err := p.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, errm.Wrap(err, "failed to get notes commit")
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errm.Wrap(err, "failed to get notes tree")
	}

	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := f.Contents()
		if err != nil {
			return errm.Wrap(err, "failed to read note", "path", f.Name)
		}
		notes[strings.ReplaceAll(f.Name, "/", "")] = content
		return nil
	})
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (p *Provider) ancestors(ctx context.Context, revision string) ([]*object.Commit, error) {
	hash, err := p.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, errm.Wrap(err, "failed to resolve revision", "revision", revision)
	}

	iter, err := p.repo.Log(&git.LogOptions{From: *hash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, errm.Wrap(err, "failed to read log", "revision", revision)
	}
	defer iter.Close()

	var out []*object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to walk history", "revision", revision)
	}

	return out, nil
}
