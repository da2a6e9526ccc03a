package delta

import (
	"fmt"
	"strings"

	"github.com/maxbolgarin/shipcheck/internal/model"
)

const (
	CheckMigrations    = "Migrations"
	CheckFastForward   = "Fast-forward"
	CheckBuildTests    = "Build verification tests"
	CheckIssuesTesting = "Issues testing complete"
)

// BuildChecks derives the release checklist from a report
func BuildChecks(report *model.ReleaseReport, manual []string) []model.Check {
	checks := []model.Check{
		migrationCheck(report.Migration),
		fastForwardCheck(report.Comparison, report.Divergence),
		buildTestsCheck(report.TestRuns),
		issuesCheck(report.Issues),
	}
	for _, name := range manual {
		checks = append(checks, model.Check{Name: name, State: model.CheckManual})
	}
	return checks
}

func migrationCheck(migration model.MigrationResult) model.Check {
	check := model.Check{Name: CheckMigrations, State: model.CheckPass}
	if !migration.Flag {
		return check
	}
	check.State = model.CheckWarn
	check.Detail = fmt.Sprintf("%d commit(s) may contain migrations, review before deploy", len(migration.Commits))
	return check
}

func fastForwardCheck(cmp model.Comparison, divergence model.DivergenceResult) model.Check {
	check := model.Check{Name: CheckFastForward, State: model.CheckPass}
	switch cmp.Status {
	case model.StatusAhead, model.StatusIdentical:
		return check
	}
	if !divergence.ActionNeeded {
		check.Detail = fmt.Sprintf("%s: ahead by %d, behind by %d, all missing commits are cherry-picked",
			cmp.Status, cmp.AheadBy, cmp.BehindBy)
		return check
	}
	check.State = model.CheckWarn
	check.Detail = fmt.Sprintf("%s: ahead by %d, behind by %d, %d commit(s) not accounted for by cherry-picks",
		cmp.Status, cmp.AheadBy, cmp.BehindBy, len(divergence.UnexplainedCommits))
	return check
}

func buildTestsCheck(runs *model.TestRunInfo) model.Check {
	check := model.Check{Name: CheckBuildTests, State: model.CheckUnknown}
	if runs == nil {
		check.Detail = "no test run data"
		return check
	}
	check.Detail = fmt.Sprintf("%s: %d passed, %d skipped, %d failed, %d incomplete",
		runs.Version, runs.Passed, runs.Skipped, runs.Failed, runs.Incomplete)
	if runs.IsPassing() {
		check.State = model.CheckPass
	} else {
		check.State = model.CheckWarn
	}
	return check
}

// issuesCheck is unknown when some referenced keys have no tracker data,
// incomplete issues take precedence
func issuesCheck(issues model.IssueSummary) model.Check {
	check := model.Check{Name: CheckIssuesTesting, State: model.CheckPass}
	if len(issues.Incomplete) > 0 {
		keys := make([]string, 0, len(issues.Incomplete))
		for _, issue := range issues.Incomplete {
			keys = append(keys, issue.Key)
		}
		check.State = model.CheckWarn
		check.Detail = "not tested: " + strings.Join(keys, ", ")
		if len(issues.MissingKeys) > 0 {
			check.Detail += "; no tracker data for: " + strings.Join(issues.MissingKeys, ", ")
		}
		return check
	}
	if len(issues.MissingKeys) > 0 {
		check.State = model.CheckUnknown
		check.Detail = "no tracker data for: " + strings.Join(issues.MissingKeys, ", ")
	}
	return check
}
