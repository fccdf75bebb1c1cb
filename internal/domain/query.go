package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NotSpecified is substituted for any missing metadata field in prompts and reports.
const NotSpecified = "Not specified"

// SymptomQuery is the input to a single analysis.
type SymptomQuery struct {
	Symptoms string `json:"symptoms"`
	Age      Field  `json:"age,omitzero"`
	Gender   Field  `json:"gender,omitzero"`
	Duration Field  `json:"duration,omitzero"`
	Severity Field  `json:"severity,omitzero"`
}

// Field is optional free-form metadata. Clients usually send a string or a number
// (age is commonly numeric) but any JSON value is accepted; the original JSON form is
// kept so records round-trip.
type Field struct {
	value string
	kind  fieldKind
}

type fieldKind uint8

const (
	fieldText fieldKind = iota
	fieldNumber
	// fieldRaw holds any other JSON value (bool, array, object) as compact JSON text.
	fieldRaw
)

// Text builds a string-valued field.
func Text(v string) Field {
	return Field{value: v}
}

// Number builds a numeric field.
func Number(v float64) Field {
	return Field{value: strconv.FormatFloat(v, 'f', -1, 64), kind: fieldNumber}
}

// String returns the raw value, or "" when absent. Non-scalar values read as their JSON text.
func (f Field) String() string {
	return f.value
}

// IsZero reports whether the field is absent. Used by omitzero.
func (f Field) IsZero() bool {
	return f.value == ""
}

// OrDefault returns the value or NotSpecified.
func (f Field) OrDefault() string {
	if strings.TrimSpace(f.value) == "" {
		return NotSpecified
	}
	return f.value
}

// MarshalJSON implements json.Marshaler.
func (f Field) MarshalJSON() ([]byte, error) {
	switch {
	case f.value == "":
		return []byte("null"), nil
	case f.kind == fieldNumber, f.kind == fieldRaw:
		return []byte(f.value), nil
	default:
		return json.Marshal(f.value)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = Field{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field{value: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = Field{value: n.String(), kind: fieldNumber}
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return fmt.Errorf("metadata field: %w", err)
	}
	*f = Field{value: compact.String(), kind: fieldRaw}
	return nil
}

// AnalysisResult is the output of any analysis strategy.
type AnalysisResult struct {
	Text   string `json:"analysis"`
	Source Source `json:"source"`
}

// OutcomeStatus tells the caller how to present an analysis.
type OutcomeStatus int

const (
	// StatusOK is a normal analysis, including silent fallbacks.
	StatusOK OutcomeStatus = iota
	// StatusRateLimited means the provider is temporarily unavailable; the
	// result holds rule-based guidance and the request may be retried.
	StatusRateLimited
)

func (s OutcomeStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Outcome is what the orchestrator hands back for every request.
type Outcome struct {
	Result     AnalysisResult
	Status     OutcomeStatus
	QueryID    string
	Timestamp  time.Time
	RetryAfter time.Duration
	// Persisted is false when the history append failed.
	Persisted bool
}

// Retryable reports whether the caller should try again later.
func (o Outcome) Retryable() bool {
	return o.Status == StatusRateLimited
}
