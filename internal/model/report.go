package model

import "time"

// TokenKind is the type of a commit message token
type TokenKind string

const (
	TokenText        TokenKind = "text"
	TokenIssue       TokenKind = "issue"
	TokenPullRequest TokenKind = "pull_request"
)

// Token is a piece of a commit message. Concatenated Text of all tokens
// of a message is the message itself.
type Token struct {
	Kind  TokenKind `json:"kind"`
	Text  string    `json:"text"`
	Value string    `json:"value,omitempty"`
	URL   string    `json:"url,omitempty"`
}

// MigrationCommit is a commit that looks migration related
type MigrationCommit struct {
	SHA     string   `json:"sha"`
	Message string   `json:"message"`
	Files   []string `json:"files,omitempty"`
}

// MigrationResult is the outcome of migration classification of a range
type MigrationResult struct {
	Flag    bool              `json:"flag"`
	Commits []MigrationCommit `json:"commits"`
}

// DivergenceResult describes commits of base that are missing in head
type DivergenceResult struct {
	ActionNeeded       bool            `json:"action_needed"`
	ExplainedCommits   map[string]bool `json:"explained_commits"`
	UnexplainedCommits []CommitRef     `json:"unexplained_commits"`
}

// CommitAnnotation is a commit of the range with everything derived from it
type CommitAnnotation struct {
	Commit      CommitRef  `json:"commit"`
	Tokens      []Token    `json:"tokens"`
	IsMigration bool       `json:"is_migration"`
	Issue       *IssueInfo `json:"issue,omitempty"`
}

// CheckState is the state of a release checklist item
type CheckState string

const (
	CheckPass    CheckState = "pass"
	CheckWarn    CheckState = "warn"
	CheckUnknown CheckState = "unknown"
	CheckManual  CheckState = "manual"
)

// Check is a single item of the release checklist
type Check struct {
	Name   string     `json:"name"`
	State  CheckState `json:"state"`
	Detail string     `json:"detail,omitempty"`
}

// ReleaseReport is the result of analyzing base..head
type ReleaseReport struct {
	Base        string             `json:"base"`
	Head        string             `json:"head"`
	Comparison  Comparison         `json:"comparison"`
	Commits     []CommitAnnotation `json:"commits"`
	Migration   MigrationResult    `json:"migration"`
	Divergence  DivergenceResult   `json:"divergence"`
	Issues      IssueSummary       `json:"issues"`
	TestRuns    *TestRunInfo       `json:"test_runs,omitempty"`
	Checks      []Check            `json:"checks"`
	GeneratedAt time.Time          `json:"generated_at"`
}
