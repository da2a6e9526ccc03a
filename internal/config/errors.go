package config

import "github.com/maxbolgarin/errm"

var (
	ErrMissingProviderType  = errm.New("provider type is required")
	ErrMissingTestLodgeAuth = errm.New("testlodge email and token are required when testlodge is configured")
)
