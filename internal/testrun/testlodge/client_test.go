package testlodge

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/account/11041/projects/41748/runs.json", r.URL.Path)

		email, token, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "qa@example.com", email)
		assert.Equal(t, "secret", token)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Email: "qa@example.com", Token: "secret", AccountID: "11041", ProjectID: "41748"})
	require.NoError(t, err)
	return c
}

func TestGetTestRunInfo(t *testing.T) {
	c := newTestClient(t, `{"runs": [
		{"id": 3, "name": "9.3.1", "passed_number": 40, "skipped_number": 2, "failed_number": 1, "incomplete_number": 0},
		{"id": 2, "name": "9.3.1", "passed_number": 15, "skipped_number": 0, "failed_number": 0, "incomplete_number": 3},
		{"id": 1, "name": "9.3.0", "passed_number": 99, "skipped_number": 9, "failed_number": 9, "incomplete_number": 9}
	]}`)

	info, err := c.GetTestRunInfo(t.Context())
	require.NoError(t, err)
	assert.Equal(t, &model.TestRunInfo{Version: "9.3.1", Passed: 55, Skipped: 2, Failed: 1, Incomplete: 3}, info)
	assert.False(t, info.IsPassing())
}

func TestGetTestRunInfoNoRuns(t *testing.T) {
	c := newTestClient(t, `{"runs": []}`)

	info, err := c.GetTestRunInfo(t.Context())
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no credentials", Config{AccountID: "1", ProjectID: "2"}},
		{"no token", Config{Email: "qa@example.com", AccountID: "1", ProjectID: "2"}},
		{"no project", Config{Email: "qa@example.com", Token: "secret", AccountID: "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
		})
	}

	cfg := Config{Email: "qa@example.com", Token: "secret", AccountID: "1", ProjectID: "2"}
	require.NoError(t, cfg.PrepareAndValidate())
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
}
