package delta

import (
	"context"
	"errors"
	"testing"

	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeDivergenceAheadSkipsReverseFetch(t *testing.T) {
	forward := &model.Comparison{Status: model.StatusAhead, AheadBy: 2}

	called := false
	result, err := AnalyzeDivergence(context.Background(), forward, "main", "release", func(context.Context, string, string) (*model.Comparison, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)

	assert.False(t, called)
	assert.False(t, result.ActionNeeded)
	assert.Empty(t, result.ExplainedCommits)
	assert.Empty(t, result.UnexplainedCommits)
}

func TestAnalyzeDivergence(t *testing.T) {
	tests := []struct {
		name        string
		forward     []model.CommitRef
		reverse     []model.CommitRef
		explained   []string
		unexplained []string
	}{
		{
			name:        "cherry picked to marker in reverse commit",
			forward:     []model.CommitRef{{SHA: "def456", Message: "Fix SF-1"}},
			reverse:     []model.CommitRef{{SHA: "abc123", Message: "Fix SF-1\n\n(cherry picked to commit def456)"}},
			explained:   []string{"abc123"},
			unexplained: []string{},
		},
		{
			name:        "cherry picked from marker in forward commit",
			forward:     []model.CommitRef{{SHA: "def456", Message: "Fix SF-1\n\n(cherry picked from commit abc123)"}},
			reverse:     []model.CommitRef{{SHA: "abc123", Message: "Fix SF-1"}},
			explained:   []string{"abc123"},
			unexplained: []string{},
		},
		{
			name:        "marker in git note",
			forward:     []model.CommitRef{{SHA: "def456", Message: "Fix", Note: "cherry picked from commit abc123"}},
			reverse:     []model.CommitRef{{SHA: "abc123", Message: "Fix"}},
			explained:   []string{"abc123"},
			unexplained: []string{},
		},
		{
			name:        "unexplained commit",
			forward:     []model.CommitRef{{SHA: "def456", Message: "Feature"}},
			reverse:     []model.CommitRef{{SHA: "abc123", Message: "Hotfix"}, {SHA: "fff000", Message: "x (cherry picked to commit def456)"}},
			explained:   []string{"fff000"},
			unexplained: []string{"abc123"},
		},
		{
			name:        "empty sha never explains",
			forward:     []model.CommitRef{{SHA: "", Message: "cherry picked from commit "}},
			reverse:     []model.CommitRef{{SHA: "", Message: "cherry picked to commit "}},
			explained:   []string{},
			unexplained: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forward := &model.Comparison{Status: model.StatusDiverged, AheadBy: len(tt.forward), BehindBy: len(tt.reverse), Commits: tt.forward}

			var gotBase, gotHead string
			result, err := AnalyzeDivergence(context.Background(), forward, "main", "release", func(_ context.Context, base, head string) (*model.Comparison, error) {
				gotBase, gotHead = base, head
				return &model.Comparison{Status: model.StatusDiverged, Commits: tt.reverse, Order: model.OrderOldestFirst}, nil
			})
			require.NoError(t, err)

			assert.Equal(t, "release", gotBase)
			assert.Equal(t, "main", gotHead)

			explained := []string{}
			for sha := range result.ExplainedCommits {
				explained = append(explained, sha)
			}
			assert.ElementsMatch(t, tt.explained, explained)

			unexplained := []string{}
			for _, commit := range result.UnexplainedCommits {
				unexplained = append(unexplained, commit.SHA)
			}
			assert.Equal(t, tt.unexplained, unexplained)
			assert.Equal(t, len(tt.unexplained) > 0, result.ActionNeeded)
		})
	}
}

func TestAnalyzeDivergenceIdenticalFetchesReverse(t *testing.T) {
	forward := &model.Comparison{Status: model.StatusIdentical}

	called := false
	result, err := AnalyzeDivergence(context.Background(), forward, "main", "release", func(context.Context, string, string) (*model.Comparison, error) {
		called = true
		return &model.Comparison{Status: model.StatusIdentical}, nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, result.ActionNeeded)
}

func TestAnalyzeDivergenceReverseFailure(t *testing.T) {
	forward := &model.Comparison{Status: model.StatusBehind, BehindBy: 1}

	_, err := AnalyzeDivergence(context.Background(), forward, "main", "release", func(context.Context, string, string) (*model.Comparison, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestAnalyzeDivergenceEmptyComparison(t *testing.T) {
	_, err := AnalyzeDivergence(context.Background(), nil, "main", "release", func(context.Context, string, string) (*model.Comparison, error) {
		t.Fatal("reverse comparison must not be fetched without a forward one")
		return nil, nil
	})
	require.ErrorIs(t, err, errEmptyComparison)

	forward := &model.Comparison{Status: model.StatusDiverged, AheadBy: 1, BehindBy: 1}
	_, err = AnalyzeDivergence(context.Background(), forward, "main", "release", func(context.Context, string, string) (*model.Comparison, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, errEmptyComparison)
}
