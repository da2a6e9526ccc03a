package testlodge

import (
	"context"
	"net/url"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
)

var _ interfaces.TestRunSource = (*Client)(nil)

// Client reads test run results from the TestLodge API
type Client struct {
	cli      *cliex.HTTP
	runsPath string
	log      logze.Logger
}

type runsResponse struct {
	Runs []run `json:"runs"`
}

type run struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	PassedNumber     int    `json:"passed_number"`
	SkippedNumber    int    `json:"skipped_number"`
	FailedNumber     int    `json:"failed_number"`
	IncompleteNumber int    `json:"incomplete_number"`
}

// New creates a new TestLodge client
func New(cfg Config) (*Client, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	log := logze.With("component", "testlodge")

	cli, err := cliex.New(cliex.WithBaseURL(cfg.BaseURL), cliex.WithLogger(log))
	if err != nil {
		return nil, errm.Wrap(err, "failed to create HTTP client")
	}
	cli.C().SetBasicAuth(cfg.Email, cfg.Token)

	return &Client{
		cli:      cli,
		runsPath: "v1/account/" + url.PathEscape(cfg.AccountID) + "/projects/" + url.PathEscape(cfg.ProjectID) + "/runs.json",
		log:      log,
	}, nil
}

// GetTestRunInfo sums the results of all runs named like the latest run.
// Build verification tests may be split across several runs of one version.
// Returns nil when the project has no runs.
func (c *Client) GetTestRunInfo(ctx context.Context) (*model.TestRunInfo, error) {
	var resp runsResponse
	if _, err := c.cli.Get(ctx, c.runsPath, &resp); err != nil {
		return nil, errm.Wrap(err, "failed to get test runs")
	}

	info := summarize(resp.Runs)
	if info == nil {
		c.log.Warn("no test runs found")
		return nil, nil
	}

	c.log.Debug("fetched test runs", "version", info.Version, "runs", len(resp.Runs))

	return info, nil
}

// summarize aggregates runs sharing the name of the first (latest) run
func summarize(runs []run) *model.TestRunInfo {
	if len(runs) == 0 {
		return nil
	}

	info := &model.TestRunInfo{Version: runs[0].Name}
	for _, r := range runs {
		if r.Name != info.Version {
			continue
		}
		info.Passed += r.PassedNumber
		info.Skipped += r.SkippedNumber
		info.Failed += r.FailedNumber
		info.Incomplete += r.IncompleteNumber
	}

	return info
}
