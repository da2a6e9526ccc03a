package app

import (
	"bytes"
	"testing"

	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummary(t *testing.T) {
	issue := model.IssueInfo{Key: "SF-1", Resolution: "Fixed"}
	report := &model.ReleaseReport{
		Base:       "main",
		Head:       "release",
		Comparison: model.Comparison{Status: model.StatusDiverged, AheadBy: 2, BehindBy: 1},
		Commits: []model.CommitAnnotation{
			{Commit: model.CommitRef{SHA: "0123456789abcdef", Message: "SF-1 Fix checkout\n\nlong body"}, Issue: &issue},
			{Commit: model.CommitRef{SHA: "fedcba9876543210", Message: "Add migration"}, IsMigration: true},
		},
		Migration: model.MigrationResult{Flag: true, Commits: []model.MigrationCommit{
			{SHA: "fedcba9876543210", Message: "Add migration", Files: []string{"db/001.sql"}},
		}},
		Divergence: model.DivergenceResult{ActionNeeded: true, UnexplainedCommits: []model.CommitRef{
			{SHA: "aaaabbbbccccdddd", Message: "Hotfix"},
		}},
		Issues: model.IssueSummary{SearchURL: "https://jira/issues/?jql=x"},
		Checks: []model.Check{
			{Name: "Migrations", State: model.CheckWarn, Detail: "1 commit(s) may contain migrations"},
			{Name: "Tag the release", State: model.CheckManual},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "Release main -> release: diverged (ahead 2, behind 1)")
	assert.Contains(t, out, "[!!] Migrations: 1 commit(s) may contain migrations")
	assert.Contains(t, out, "[  ] Tag the release\n")
	assert.Contains(t, out, "fedcba98 Add migration (db/001.sql)")
	assert.Contains(t, out, "aaaabbbb Hotfix")
	assert.Contains(t, out, "01234567 SF-1 Fix checkout [SF-1: Fixed]\n")
	assert.NotContains(t, out, "long body")
	assert.Contains(t, out, "Issues: https://jira/issues/?jql=x")
}
