package reconcile

import "time"

// Config holds configuration for the reconciliation loop.
type Config struct {
	// Interval is the delay between two cycles.
	Interval time.Duration `mapstructure:"interval" default:"15s"`
	// RetryInterval is the delay after a cycle aborted on a read failure.
	RetryInterval time.Duration `mapstructure:"retry_interval" default:"60s"`
	// PropagateDBDeletes drops spreadsheet rows whose id no longer exists in the database.
	PropagateDBDeletes bool `mapstructure:"propagate_db_deletes" default:"false"`
	// PersistState keeps the last-known snapshots in object storage across restarts.
	PersistState bool `mapstructure:"persist_state" default:"false"`
	// StateObject is the object name of the persisted state.
	StateObject string `mapstructure:"state_object" default:"state/employees.json"`
	// CreateTable creates the employees table at startup when it is missing.
	CreateTable bool `mapstructure:"create_table" default:"true"`
	// PreviewTTL is how long a dry-run preview is served from cache.
	PreviewTTL time.Duration `mapstructure:"preview_ttl" default:"30s"`
}

// withDefaults fills zero intervals so a zero Config still polls sanely.
func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 15 * time.Second
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 60 * time.Second
	}
	return c
}
