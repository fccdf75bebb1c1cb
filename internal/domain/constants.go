package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// DataFilePermissions is the permission for history data files (rw-r--r--)
	DataFilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout constants
const (
	// DefaultProviderTimeout bounds a single provider call
	DefaultProviderTimeout = 30 * time.Second
	// DefaultShutdownTimeout bounds graceful HTTP shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Symptom input bounds, measured after trimming
const (
	MinSymptomsLength = 3
	MaxSymptomsLength = 1000
)

// History constants
const (
	// HistoryRetention is the maximum number of records kept
	HistoryRetention = 1000
	// DefaultHistoryLimit is the page size when none is given
	DefaultHistoryLimit = 10
	MinHistoryLimit     = 1
	MaxHistoryLimit     = 100
)

// Time formats
const (
	// TimestampFormat is ISO-8601 UTC with millisecond precision
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"
)
