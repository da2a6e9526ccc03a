package delta

import "github.com/maxbolgarin/errm"

var (
	// ErrEmptyRange is returned when base or head cannot be resolved
	ErrEmptyRange = errm.New("base and head are required")

	errNoProjectKeys    = errm.New("at least one project key is required")
	errInvalidPoolSize  = errm.New("pool size must be positive")
	errNoCommitSource   = errm.New("commit source is required")
	errInvalidRateLimit = errm.New("detail rate limit must not be negative")
	errEmptyComparison  = errm.New("commit source returned no comparison")
)
