package delta

import (
	"slices"
	"strings"

	"github.com/maxbolgarin/shipcheck/internal/model"
)

// Classifier flags commits that probably contain data or schema migrations.
// The result is advisory: it is a keyword match, not an inspection of the change.
type Classifier struct {
	keywords []string
}

// NewClassifier creates a classifier matching any of keywords case-insensitively
func NewClassifier(keywords []string) *Classifier {
	lowered := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			lowered = append(lowered, keyword)
		}
	}
	if len(lowered) == 0 {
		lowered = defaultMigrationKeywords
	}
	return &Classifier{keywords: lowered}
}

// IsMigrationCommit reports whether the message or any changed file name mentions a migration
func (c *Classifier) IsMigrationCommit(message string, files []string) bool {
	return c.matches(message) || slices.ContainsFunc(files, c.matches)
}

// MatchingFiles returns changed files whose names mention a migration
func (c *Classifier) MatchingFiles(files []string) []string {
	var out []string
	for _, file := range files {
		if c.matches(file) {
			out = append(out, file)
		}
	}
	return out
}

// ClassifyRange classifies every commit independently, keeping input order
func (c *Classifier) ClassifyRange(details []model.CommitDetail) model.MigrationResult {
	result := model.MigrationResult{Commits: []model.MigrationCommit{}}
	for _, detail := range details {
		if !c.IsMigrationCommit(detail.Message, detail.Files) {
			continue
		}
		result.Commits = append(result.Commits, model.MigrationCommit{
			SHA:     detail.SHA,
			Message: detail.Message,
			Files:   c.MatchingFiles(detail.Files),
		})
	}
	result.Flag = len(result.Commits) > 0
	return result
}

func (c *Classifier) matches(s string) bool {
	s = strings.ToLower(s)
	for _, keyword := range c.keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

var defaultClassifier = NewClassifier(defaultMigrationKeywords)

// IsMigrationCommit reports whether a commit mentions "migrate" or "migration"
// in its message or in any changed file name
func IsMigrationCommit(message string, files []string) bool {
	return defaultClassifier.IsMigrationCommit(message, files)
}
