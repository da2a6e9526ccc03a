package provider

import (
	"testing"

	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPrepareAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"github", Config{Type: "GitHub", Token: "t", Owner: "acme", Repo: "shop"}, false},
		{"gitlab without token", Config{Type: GitLab, Owner: "acme", Repo: "shop"}, true},
		{"github without repo", Config{Type: GitHub, Token: "t", Owner: "acme"}, true},
		{"local", Config{Type: Local, RepoPath: "/srv/shop"}, false},
		{"local without path", Config{Type: Local}, true},
		{"unknown type", Config{Type: "bitbucket", Token: "t"}, true},
		{"empty type", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.PrepareAndValidate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewCommitSource(t *testing.T) {
	source, err := NewCommitSource(Config{Type: GitHub, Token: "t", Owner: "acme", Repo: "shop"})
	require.NoError(t, err)

	_, ok := source.(interfaces.NotesSource)
	assert.True(t, ok)
	_, ok = source.(interfaces.PullRequestLinker)
	assert.True(t, ok)

	source, err = NewCommitSource(Config{Type: GitLab, Token: "t", Owner: "acme", Repo: "shop"})
	require.NoError(t, err)
	_, ok = source.(interfaces.NotesSource)
	assert.False(t, ok)

	_, err = NewCommitSource(Config{Type: Local, RepoPath: t.TempDir()})
	require.Error(t, err)
}
