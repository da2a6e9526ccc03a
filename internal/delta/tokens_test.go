package delta

import (
	"testing"

	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T, keys ...string) *Extractor {
	t.Helper()
	if len(keys) == 0 {
		keys = []string{"SF"}
	}
	e, err := NewExtractor(keys)
	require.NoError(t, err)
	return e
}

func TestExtractorTokens(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name    string
		message string
		want    []model.Token
	}{
		{
			name:    "mixed references",
			message: "Fix bug (#42) SF-101 done",
			want: []model.Token{
				{Kind: model.TokenText, Text: "Fix bug "},
				{Kind: model.TokenPullRequest, Text: "(#42)", Value: "42"},
				{Kind: model.TokenText, Text: " "},
				{Kind: model.TokenIssue, Text: "SF-101", Value: "SF-101"},
				{Kind: model.TokenText, Text: " done"},
			},
		},
		{
			name:    "plain text",
			message: "Update readme",
			want:    []model.Token{{Kind: model.TokenText, Text: "Update readme"}},
		},
		{
			name:    "empty message",
			message: "",
			want:    []model.Token{},
		},
		{
			name:    "adjacent references",
			message: "SF-1SF-2(#3)",
			want: []model.Token{
				{Kind: model.TokenIssue, Text: "SF-1", Value: "SF-1"},
				{Kind: model.TokenIssue, Text: "SF-2", Value: "SF-2"},
				{Kind: model.TokenPullRequest, Text: "(#3)", Value: "3"},
			},
		},
		{
			name:    "hash without parens is text",
			message: "see #12 and SF-",
			want:    []model.Token{{Kind: model.TokenText, Text: "see #12 and SF-"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Tokens(tt.message)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.message, JoinTokens(got))
		})
	}
}

func TestExtractorRoundTrip(t *testing.T) {
	e := newTestExtractor(t, "SF", "OPS")

	messages := []string{
		"Merge branch 'release/1.2' (#77)\n\nSF-1, OPS-22 and (#78)",
		"  leading spaces SF-9 ",
		"(#1)(#2)(#3)",
		"unicode ✓ SF-100 ✓",
		"",
		"SF-",
		"SF-(#",
		"\xffSF-1\xfe(#2)\xc3",
	}
	for _, message := range messages {
		assert.Equal(t, message, JoinTokens(e.Tokens(message)))
	}
}

func TestExtractorTokensEdges(t *testing.T) {
	e := newTestExtractor(t)

	assert.Empty(t, e.Tokens(""))
	assert.Equal(t, []model.Token{{Kind: model.TokenText, Text: "SF-"}}, e.Tokens("SF-"))
	assert.Equal(t, []model.Token{
		{Kind: model.TokenText, Text: "\xff"},
		{Kind: model.TokenIssue, Text: "SF-1", Value: "SF-1"},
		{Kind: model.TokenText, Text: "\xfe"},
		{Kind: model.TokenPullRequest, Text: "(#2)", Value: "2"},
		{Kind: model.TokenText, Text: "\xc3"},
	}, e.Tokens("\xffSF-1\xfe(#2)\xc3"))
}

func TestExtractorFirstIssueKey(t *testing.T) {
	e := newTestExtractor(t)

	key, ok := e.FirstIssueKey("SF-7 follow-up for SF-3")
	assert.True(t, ok)
	assert.Equal(t, "SF-7", key)

	_, ok = e.FirstIssueKey("no issue here (#5)")
	assert.False(t, ok)
}

func TestExtractorAllIssueKeys(t *testing.T) {
	e := newTestExtractor(t, "SF", "OPS")

	keys := e.AllIssueKeys([]string{
		"SF-2 first",
		"OPS-1 and SF-2 again",
		"nothing",
		"SF-3\n\n--- Git Notes ---\n\ncherry picked from SF-2",
	})
	assert.Equal(t, []string{"SF-2", "OPS-1", "SF-3"}, keys)

	reversed := e.AllIssueKeys([]string{"SF-3", "OPS-1 SF-2", "SF-2"})
	assert.ElementsMatch(t, keys, reversed)

	assert.Empty(t, e.AllIssueKeys([]string{"no keys"}))
}

func TestExtractorPullRequestNumbers(t *testing.T) {
	e := newTestExtractor(t)
	assert.Equal(t, []string{"12", "13"}, e.PullRequestNumbers("Squash (#12) revert (#13) SF-1"))
	assert.Empty(t, e.PullRequestNumbers("SF-1 only"))
}

func TestNewExtractorRequiresKeys(t *testing.T) {
	_, err := NewExtractor([]string{" ", ""})
	require.Error(t, err)

	e, err := NewExtractor([]string{"A.B"})
	require.NoError(t, err)
	_, ok := e.FirstIssueKey("AxB-1")
	assert.False(t, ok, "project keys are matched literally")
}
