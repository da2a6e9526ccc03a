package testlodge

import "github.com/maxbolgarin/errm"

var (
	errCredentialsRequired = errm.New("testlodge email and token are required")
	errProjectRequired     = errm.New("testlodge account_id and project_id are required")
)
