package delta

import (
	"strings"

	"github.com/maxbolgarin/lang"
)

const (
	defaultPoolSize   = 8
	defaultProjectKey = "SF"
)

var (
	defaultMigrationKeywords = []string{"migrate", "migration"}
	defaultCompletedStatuses = []string{"Resolved", "Helps", "Closed"}
	defaultManualChecks      = []string{
		"No significant new issues found by testers (check test results log)",
		"Issue tracker release created and issues added to it",
		"Build counter updated and reset to 0 (if planning a major or minor release)",
	}
)

// Config represents release delta analysis configuration
type Config struct {
	Base string `yaml:"base" env:"DELTA_BASE"`
	Head string `yaml:"head" env:"DELTA_HEAD"`

	// ProjectKeys are issue tracker project prefixes, e.g. SF for SF-1234
	ProjectKeys       []string `yaml:"project_keys" env:"DELTA_PROJECT_KEYS"`
	MigrationKeywords []string `yaml:"migration_keywords" env:"DELTA_MIGRATION_KEYWORDS"`
	CompletedStatuses []string `yaml:"completed_statuses" env:"DELTA_COMPLETED_STATUSES"`
	ManualChecks      []string `yaml:"manual_checks" env:"DELTA_MANUAL_CHECKS"`

	PoolSize int `yaml:"pool_size" env:"DELTA_POOL_SIZE"`

	// DetailRateLimit caps commit detail requests per second, 0 means no limit
	DetailRateLimit float64 `yaml:"detail_rate_limit" env:"DELTA_DETAIL_RATE_LIMIT"`

	Verbose bool `yaml:"verbose" env:"DELTA_VERBOSE"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Base = strings.TrimSpace(cfg.Base)
	cfg.Head = strings.TrimSpace(cfg.Head)
	cfg.PoolSize = lang.Check(cfg.PoolSize, defaultPoolSize)
	if cfg.PoolSize < 0 {
		return errInvalidPoolSize
	}
	if cfg.DetailRateLimit < 0 {
		return errInvalidRateLimit
	}

	if len(cfg.ProjectKeys) == 0 {
		cfg.ProjectKeys = []string{defaultProjectKey}
	}
	if len(cfg.MigrationKeywords) == 0 {
		cfg.MigrationKeywords = defaultMigrationKeywords
	}
	if len(cfg.CompletedStatuses) == 0 {
		cfg.CompletedStatuses = defaultCompletedStatuses
	}
	if cfg.ManualChecks == nil {
		cfg.ManualChecks = defaultManualChecks
	}

	return nil
}
