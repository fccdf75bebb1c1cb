package domain

import "time"

// HistoryRecord is one persisted query/analysis pair.
type HistoryRecord struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Symptoms  string `json:"symptoms"`
	Age       Field  `json:"age,omitzero"`
	Gender    Field  `json:"gender,omitzero"`
	Duration  Field  `json:"duration,omitzero"`
	Severity  Field  `json:"severity,omitzero"`
	Analysis  string `json:"analysis"`
	Source    Source `json:"source"`
}

// NewHistoryRecord pairs a query with the result it produced.
func NewHistoryRecord(id string, at time.Time, q SymptomQuery, res AnalysisResult) HistoryRecord {
	return HistoryRecord{
		ID:        id,
		Timestamp: FormatTimestamp(at),
		Symptoms:  q.Symptoms,
		Age:       q.Age,
		Gender:    q.Gender,
		Duration:  q.Duration,
		Severity:  q.Severity,
		Analysis:  res.Text,
		Source:    res.Source,
	}
}

// Time parses the record timestamp. Unparseable timestamps yield the zero time.
func (r HistoryRecord) Time() time.Time {
	t, err := ParseTimestamp(r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HistoryPage is one page of the history log.
type HistoryPage struct {
	Records []HistoryRecord `json:"queries"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ClampPage bounds limit to [MinHistoryLimit, MaxHistoryLimit] and offset to >= 0.
func ClampPage(limit, offset int) (int, int) {
	if limit < MinHistoryLimit {
		limit = MinHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// FormatTimestamp renders t as ISO-8601 UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTimestamp accepts TimestampFormat and any RFC 3339 variant.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
