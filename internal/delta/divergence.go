package delta

import (
	"context"
	"strings"

	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/shipcheck/internal/model"
)

// Markers written by `git cherry-pick -x` and by the release tooling into notes
const (
	cherryPickedFromMarker = "cherry picked from commit "
	cherryPickedToMarker   = "cherry picked to commit "
)

// ComparisonFetcher returns the comparison of head against base
type ComparisonFetcher func(ctx context.Context, base, head string) (*model.Comparison, error)

// AnalyzeDivergence finds commits of base that head lacks and that are not
// accounted for by cherry-pick markers. The reverse comparison is fetched only
// when head is not strictly ahead of base.
//
// Markers are free-form text, so a missing marker does not prove that commits
// are unrelated; it only means no annotation was found.
func AnalyzeDivergence(ctx context.Context, forward *model.Comparison, base, head string, fetchReverse ComparisonFetcher) (model.DivergenceResult, error) {
	result := model.DivergenceResult{
		ExplainedCommits:   make(map[string]bool),
		UnexplainedCommits: []model.CommitRef{},
	}
	if forward == nil {
		return model.DivergenceResult{}, errEmptyComparison
	}
	if forward.Status == model.StatusAhead {
		return result, nil
	}

	reverse, err := fetchReverse(ctx, head, base)
	if err != nil {
		return model.DivergenceResult{}, erro.Wrap(err, "fetch reverse comparison")
	}
	if reverse == nil {
		return model.DivergenceResult{}, errEmptyComparison
	}
	reverse.Normalize()

	forwardMessages := make([]string, 0, len(forward.Commits))
	for _, commit := range forward.Commits {
		forwardMessages = append(forwardMessages, commit.FullMessage())
	}

	for _, commit := range reverse.Commits {
		if isCherryPicked(commit, forward.Commits, forwardMessages) {
			result.ExplainedCommits[commit.SHA] = true
			continue
		}
		result.UnexplainedCommits = append(result.UnexplainedCommits, commit)
	}
	result.ActionNeeded = len(result.UnexplainedCommits) > 0

	return result, nil
}

func isCherryPicked(commit model.CommitRef, forward []model.CommitRef, forwardMessages []string) bool {
	if commit.SHA != "" {
		from := cherryPickedFromMarker + commit.SHA
		for _, message := range forwardMessages {
			if strings.Contains(message, from) {
				return true
			}
		}
	}

	message := commit.FullMessage()
	for _, other := range forward {
		if other.SHA != "" && strings.Contains(message, cherryPickedToMarker+other.SHA) {
			return true
		}
	}
	return false
}
