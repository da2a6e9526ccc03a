package interfaces

import (
	"context"

	"github.com/maxbolgarin/shipcheck/internal/model"
)

// CommitSource defines the interface for source-control hosts (GitHub, GitLab, local git)
type CommitSource interface {
	GetComparison(ctx context.Context, base, head string) (*model.Comparison, error)
	GetCommitDetail(ctx context.Context, ref model.CommitRef) (*model.CommitDetail, error)
}

// NotesSource is implemented by commit sources that can read git notes
type NotesSource interface {
	GetNotes(ctx context.Context) (map[string]string, error)
}

// PullRequestLinker is implemented by commit sources that host pull requests
type PullRequestLinker interface {
	PullRequestURL(number string) string
}

// IssueSource defines the interface for issue trackers
type IssueSource interface {
	GetIssueInfos(ctx context.Context, keys []string) ([]model.IssueInfo, error)
}

// IssueLinker builds browser links to the issue tracker
type IssueLinker interface {
	IssueURL(key string) string
	SearchURL(keys []string) string
}

// TestRunSource defines the interface for test management services
type TestRunSource interface {
	GetTestRunInfo(ctx context.Context) (*model.TestRunInfo, error)
}
