package delta

import (
	"context"

	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/shipcheck/internal/model"
)

// IssueFetcher returns tracker metadata for a batch of issue keys
type IssueFetcher func(ctx context.Context, keys []string) ([]model.IssueInfo, error)

// IssueAggregator collects issue references of a commit range and fetches them in one batch
type IssueAggregator struct {
	extractor *Extractor
	completed []string
}

// NewIssueAggregator creates an aggregator; completedStatuses defaults to Resolved, Helps, Closed
func NewIssueAggregator(extractor *Extractor, completedStatuses []string) *IssueAggregator {
	if len(completedStatuses) == 0 {
		completedStatuses = defaultCompletedStatuses
	}
	return &IssueAggregator{extractor: extractor, completed: completedStatuses}
}

// Aggregate fetches every issue referenced by messages with a single call to fetch.
// fetch is not called at all when no message references an issue.
func (a *IssueAggregator) Aggregate(ctx context.Context, messages []string, fetch IssueFetcher) (model.IssueSummary, error) {
	summary := model.IssueSummary{
		Issues:       []model.IssueInfo{},
		ByKey:        make(map[string]model.IssueInfo),
		ByResolution: make(map[string][]string),
		Incomplete:   []model.IssueInfo{},
	}

	keys := a.extractor.AllIssueKeys(messages)
	if len(keys) == 0 {
		return summary, nil
	}

	infos, err := fetch(ctx, keys)
	if err != nil {
		return model.IssueSummary{}, erro.Wrap(err, "fetch issue infos")
	}

	var extra []model.IssueInfo
	for _, info := range infos {
		if info.Resolution == "" {
			info.Resolution = model.UnresolvedResolution
		}
		if _, ok := summary.ByKey[info.Key]; ok {
			continue
		}
		summary.ByKey[info.Key] = info
		extra = append(extra, info)
	}

	requested := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		requested[key] = struct{}{}
		info, ok := summary.ByKey[key]
		if !ok {
			summary.MissingKeys = append(summary.MissingKeys, key)
			continue
		}
		summary.Issues = append(summary.Issues, info)
	}

	// trackers may answer with a renamed key for moved issues
	for _, info := range extra {
		if _, ok := requested[info.Key]; !ok {
			summary.Issues = append(summary.Issues, info)
		}
	}

	for _, issue := range summary.Issues {
		summary.ByResolution[issue.Resolution] = append(summary.ByResolution[issue.Resolution], issue.Key)
	}
	summary.Incomplete = IncompleteIssues(summary.Issues, a.completed...)

	return summary, nil
}

// IncompleteIssues returns issues whose status is not a completed one.
// Without completed statuses Resolved, Helps and Closed are used.
func IncompleteIssues(issues []model.IssueInfo, completed ...string) []model.IssueInfo {
	if len(completed) == 0 {
		completed = defaultCompletedStatuses
	}
	done := make(map[string]struct{}, len(completed))
	for _, status := range completed {
		done[status] = struct{}{}
	}

	out := []model.IssueInfo{}
	for _, issue := range issues {
		if _, ok := done[issue.Status]; !ok {
			out = append(out, issue)
		}
	}
	return out
}

// AggregateIssues aggregates issues of the default project with the default completed statuses
func AggregateIssues(ctx context.Context, messages []string, fetch IssueFetcher) (model.IssueSummary, error) {
	extractor, err := NewExtractor([]string{defaultProjectKey})
	if err != nil {
		return model.IssueSummary{}, err
	}
	return NewIssueAggregator(extractor, nil).Aggregate(ctx, messages, fetch)
}
