package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/maxbolgarin/shipcheck/internal/model"
)

var stateLabels = map[model.CheckState]string{
	model.CheckPass:    "[ok]",
	model.CheckWarn:    "[!!]",
	model.CheckUnknown: "[??]",
	model.CheckManual:  "[  ]",
}

// WriteSummary prints the checklist and the commits of a report as plain text
func WriteSummary(w io.Writer, report *model.ReleaseReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Release %s -> %s: %s (ahead %d, behind %d)\n\n",
		report.Base, report.Head, report.Comparison.Status, report.Comparison.AheadBy, report.Comparison.BehindBy)

	b.WriteString("Checklist\n")
	for _, check := range report.Checks {
		fmt.Fprintf(&b, "  %s %s", stateLabels[check.State], check.Name)
		if check.Detail != "" {
			fmt.Fprintf(&b, ": %s", check.Detail)
		}
		b.WriteString("\n")
	}

	if len(report.Migration.Commits) > 0 {
		b.WriteString("\nPossible migrations\n")
		for _, commit := range report.Migration.Commits {
			fmt.Fprintf(&b, "  %s %s", shortSHA(commit.SHA), firstLine(commit.Message))
			if len(commit.Files) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(commit.Files, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(report.Divergence.UnexplainedCommits) > 0 {
		b.WriteString("\nCommits of base missing in head\n")
		for _, commit := range report.Divergence.UnexplainedCommits {
			fmt.Fprintf(&b, "  %s %s\n", shortSHA(commit.SHA), firstLine(commit.Message))
		}
	}

	fmt.Fprintf(&b, "\nCommits (%d)\n", len(report.Commits))
	for _, annotation := range report.Commits {
		status := ""
		if annotation.Issue != nil {
			status = " [" + annotation.Issue.Key + ": " + annotation.Issue.Resolution + "]"
		}
		fmt.Fprintf(&b, "  %s %s%s\n", shortSHA(annotation.Commit.SHA), firstLine(annotation.Commit.Message), status)
	}

	if report.Issues.SearchURL != "" {
		fmt.Fprintf(&b, "\nIssues: %s\n", report.Issues.SearchURL)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
