package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maxbolgarin/shipcheck/internal/delta"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuilder struct {
	report *model.ReleaseReport
	err    error

	base, head string
}

func (f *fakeBuilder) BuildReport(_ context.Context, base, head string) (*model.ReleaseReport, error) {
	f.base, f.head = base, head
	return f.report, f.err
}

func newTestServer(t *testing.T, builder ReportBuilder) *Server {
	t.Helper()
	s, err := New(Config{Address: "127.0.0.1:0"}, builder)
	require.NoError(t, err)
	return s
}

func TestHandleReport(t *testing.T) {
	builder := &fakeBuilder{report: &model.ReleaseReport{
		Base: "main",
		Head: "release",
		Comparison: model.Comparison{
			Status:  model.StatusAhead,
			AheadBy: 1,
			Commits: []model.CommitRef{{SHA: "c1", Message: "SF-1 fix"}},
		},
		Checks: []model.Check{{Name: delta.CheckMigrations, State: model.CheckPass}},
	}}
	s := newTestServer(t, builder)

	rec := httptest.NewRecorder()
	s.handleReport(rec, httptest.NewRequest(http.MethodGet, "/report?base=main&head=release", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "main", builder.base)
	assert.Equal(t, "release", builder.head)

	var got model.ReleaseReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.StatusAhead, got.Comparison.Status)
	assert.Equal(t, "c1", got.Comparison.Commits[0].SHA)
	assert.Equal(t, model.CheckPass, got.Checks[0].State)
}

func TestHandleReportErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		err    error
		code   int
	}{
		{"empty range", http.MethodGet, delta.ErrEmptyRange, http.StatusBadRequest},
		{"build failure", http.MethodGet, errors.New("github is down"), http.StatusInternalServerError},
		{"wrong method", http.MethodPost, nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeBuilder{err: tt.err})

			rec := httptest.NewRecorder()
			s.handleReport(rec, httptest.NewRequest(tt.method, "/report", nil))

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
