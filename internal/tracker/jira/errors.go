package jira

import "github.com/maxbolgarin/errm"

var (
	errBaseURLRequired  = errm.New("jira base_url is required")
	errInvalidBatchSize = errm.New("jira batch_size must be positive")
)
