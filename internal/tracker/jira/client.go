package jira

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
)

const searchFields = "summary,issuetype,resolution,status"

var (
	_ interfaces.IssueSource = (*Client)(nil)
	_ interfaces.IssueLinker = (*Client)(nil)
)

// Client reads issue metadata from the Jira REST API v2
type Client struct {
	cli *cliex.HTTP
	cfg Config
	log logze.Logger
}

type searchResponse struct {
	Issues []issue `json:"issues"`
}

type issue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary   string `json:"summary"`
		IssueType struct {
			IconURL string `json:"iconUrl"`
		} `json:"issuetype"`
		Resolution *struct {
			Name string `json:"name"`
		} `json:"resolution"`
		Status struct {
			Name string `json:"name"`
		} `json:"status"`
	} `json:"fields"`
}

// New creates a new Jira client
func New(cfg Config) (*Client, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	log := logze.With("component", "jira")

	cli, err := cliex.NewWithConfig(cliex.Config{
		BaseURL:        cfg.BaseURL,
		UserAgent:      cfg.UserAgent,
		ProxyAddress:   cfg.ProxyURL,
		RequestTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to create HTTP client")
	}

	switch {
	case cfg.User != "" && cfg.Token != "":
		cli.C().SetBasicAuth(cfg.User, cfg.Token)
	case cfg.Token != "":
		cli.C().SetAuthToken(cfg.Token)
	}

	return &Client{cli: cli, cfg: cfg, log: log}, nil
}

// GetIssueInfos fetches issues by key with JQL search, BatchSize keys per request.
// Keys unknown to Jira are absent from the result.
func (c *Client) GetIssueInfos(ctx context.Context, keys []string) ([]model.IssueInfo, error) {
	out := make([]model.IssueInfo, 0, len(keys))

	for start := 0; start < len(keys); start += c.cfg.BatchSize {
		batch := keys[start:min(start+c.cfg.BatchSize, len(keys))]

		query := url.Values{}
		query.Set("jql", keyInJQL(batch))
		query.Set("fields", searchFields)
		query.Set("maxResults", strconv.Itoa(len(batch)))
		// unknown keys must not fail the whole query
		query.Set("validateQuery", "warn")

		var resp searchResponse
		if _, err := c.cli.Get(ctx, "rest/api/2/search?"+query.Encode(), &resp); err != nil {
			return nil, errm.Wrap(err, "failed to search issues", "keys", len(batch))
		}

		for _, issue := range resp.Issues {
			info := model.IssueInfo{
				Key:        issue.Key,
				Summary:    issue.Fields.Summary,
				IconURL:    issue.Fields.IssueType.IconURL,
				Resolution: model.UnresolvedResolution,
				Status:     issue.Fields.Status.Name,
			}
			if issue.Fields.Resolution != nil && issue.Fields.Resolution.Name != "" {
				info.Resolution = issue.Fields.Resolution.Name
			}
			out = append(out, info)
		}
	}

	c.log.Debug("fetched issues", "requested", len(keys), "found", len(out))

	return out, nil
}

// IssueURL returns the browser link of an issue
func (c *Client) IssueURL(key string) string {
	return c.cfg.BaseURL + "/browse/" + key
}

// SearchURL returns the browser link of a search over all keys
func (c *Client) SearchURL(keys []string) string {
	return c.cfg.BaseURL + "/issues/?jql=" + encodeURIComponent(keyInJQL(keys))
}

func keyInJQL(keys []string) string {
	return "key in (" + strings.Join(keys, ",") + ")"
}

func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
