package model

const notesSeparator = "\n\n--- Git Notes ---\n\n"

// ComparisonStatus is the relationship of head to base
type ComparisonStatus string

const (
	StatusAhead     ComparisonStatus = "ahead"
	StatusBehind    ComparisonStatus = "behind"
	StatusDiverged  ComparisonStatus = "diverged"
	StatusIdentical ComparisonStatus = "identical"
)

// CommitOrder is the order in which a provider returns commits of a comparison
type CommitOrder string

const (
	OrderOldestFirst CommitOrder = "oldest_first"
	OrderNewestFirst CommitOrder = "newest_first"
)

// CommitRef represents a commit as returned by a comparison
type CommitRef struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
	Note    string `json:"note,omitempty"`
}

// FullMessage returns the commit message with git notes appended
func (c CommitRef) FullMessage() string {
	if c.Note == "" {
		return c.Message
	}
	return c.Message + notesSeparator + c.Note
}

// CommitDetail represents a commit with the list of changed files
type CommitDetail struct {
	SHA     string   `json:"sha"`
	Message string   `json:"message"`
	Files   []string `json:"files"`
}

// Comparison represents the commits between two branch tips
type Comparison struct {
	Status   ComparisonStatus `json:"status"`
	AheadBy  int              `json:"ahead_by"`
	BehindBy int              `json:"behind_by"`
	Commits  []CommitRef      `json:"commits"`
	Order    CommitOrder      `json:"-"`
}

// Normalize reverses commits to oldest-first if they are not already in that order
func (c *Comparison) Normalize() {
	if c.Order == OrderOldestFirst {
		return
	}
	for i, j := 0, len(c.Commits)-1; i < j; i, j = i+1, j-1 {
		c.Commits[i], c.Commits[j] = c.Commits[j], c.Commits[i]
	}
	c.Order = OrderOldestFirst
}

// MergeNotes attaches notes (keyed by commit SHA) to the commits of the comparison
func (c *Comparison) MergeNotes(notes map[string]string) {
	if len(notes) == 0 {
		return
	}
	for i := range c.Commits {
		if note, ok := notes[c.Commits[i].SHA]; ok {
			c.Commits[i].Note = note
		}
	}
}

// StatusFromCounts derives comparison status from ahead/behind counts
func StatusFromCounts(aheadBy, behindBy int) ComparisonStatus {
	switch {
	case aheadBy > 0 && behindBy > 0:
		return StatusDiverged
	case aheadBy > 0:
		return StatusAhead
	case behindBy > 0:
		return StatusBehind
	default:
		return StatusIdentical
	}
}
