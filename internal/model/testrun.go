package model

// TestRunInfo summarizes the test runs of the latest tested version
type TestRunInfo struct {
	Version    string `json:"version"`
	Passed     int    `json:"passed"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Incomplete int    `json:"incomplete"`
}

// IsPassing reports whether nothing failed and nothing is left to run
func (t TestRunInfo) IsPassing() bool {
	return t.Failed == 0 && t.Incomplete == 0
}
