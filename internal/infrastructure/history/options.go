package history

import (
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

type options struct {
	retention int
	logger    ports.Logger
	ids       ports.IDGenerator
	now       func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithRetention caps the number of records kept. Values <= 0 keep the default.
func WithRetention(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.retention = n
		}
	}
}

// WithLogger reports recoverable problems such as a corrupt history file.
func WithLogger(l ports.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIDGenerator fills in ids for records appended without one.
func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(o *options) { o.ids = ids }
}

// WithClock overrides the time used for records appended without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{
		retention: domain.HistoryRetention,
		logger:    nopLogger{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// complete fills a missing id or timestamp.
func (o options) complete(record domain.HistoryRecord) (domain.HistoryRecord, error) {
	if record.Timestamp == "" {
		record.Timestamp = domain.FormatTimestamp(o.now())
	}
	if record.ID == "" && o.ids != nil {
		id, err := o.ids.NewID()
		if err != nil {
			return record, err
		}
		record.ID = id
	}
	return record, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}
