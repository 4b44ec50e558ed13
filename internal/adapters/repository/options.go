package repository

import "time"

// Option applies a configuration option to the SQLiteStore.
type Option func(*sqliteOptions)

type sqliteOptions struct {
	busyTimeout time.Duration
	journalMode string
}

func defaultSQLiteOptions() sqliteOptions {
	return sqliteOptions{
		busyTimeout: 5 * time.Second,
		journalMode: "WAL",
	}
}

// WithBusyTimeout sets how long a connection waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *sqliteOptions) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// WithJournalMode sets the SQLite journal mode, e.g. WAL or DELETE.
func WithJournalMode(mode string) Option {
	return func(o *sqliteOptions) {
		if mode != "" {
			o.journalMode = mode
		}
	}
}
