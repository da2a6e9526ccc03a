package model

// UnresolvedResolution is reported for issues the tracker has no resolution for
const UnresolvedResolution = "Unresolved"

// IssueInfo represents issue tracker metadata for a single issue key
type IssueInfo struct {
	Key        string `json:"key"`
	Summary    string `json:"summary"`
	IconURL    string `json:"icon_url"`
	Resolution string `json:"resolution"`
	Status     string `json:"status"`
}

// IssueSummary is the aggregated issue data of a commit range
type IssueSummary struct {
	Issues       []IssueInfo          `json:"issues"`
	ByKey        map[string]IssueInfo `json:"-"`
	ByResolution map[string][]string  `json:"by_resolution"`
	Incomplete   []IssueInfo          `json:"incomplete"`
	MissingKeys  []string             `json:"missing_keys,omitempty"`
	SearchURL    string               `json:"search_url,omitempty"`
}

// Keys returns issue keys in summary order
func (s IssueSummary) Keys() []string {
	keys := make([]string, 0, len(s.Issues))
	for _, issue := range s.Issues {
		keys = append(keys, issue.Key)
	}
	return keys
}
