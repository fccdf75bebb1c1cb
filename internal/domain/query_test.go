package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
)

func TestField_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "string", input: `"45"`, want: "45"},
		{name: "number", input: `45`, want: "45"},
		{name: "fraction", input: `2.5`, want: "2.5"},
		{name: "null", input: `null`, want: ""},
		{name: "bool kept as json", input: `true`, want: "true"},
		{name: "array kept as json", input: `[ "f" ]`, want: `["f"]`},
		{name: "object kept as json", input: `{"years": 4}`, want: `{"years":4}`},
		{name: "malformed", input: `tru`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f domain.Field
			err := json.Unmarshal([]byte(tt.input), &f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && f.String() != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, f.String(), tt.want)
			}
		})
	}
}

// TestField_KeepsJSONForm checks numbers stay numbers and absent fields are omitted
func TestField_KeepsJSONForm(t *testing.T) {
	var q domain.SymptomQuery
	if err := json.Unmarshal([]byte(`{"symptoms":"cough","age":45,"gender":"female"}`), &q); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	out, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"symptoms":"cough","age":45,"gender":"female"}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

// TestField_RoundTripsAnyJSONValue checks non-scalar metadata survives a save unchanged
func TestField_RoundTripsAnyJSONValue(t *testing.T) {
	var q domain.SymptomQuery
	in := `{"symptoms":"cough","age":true,"gender":["f"],"severity":{"scale":7}}`
	if err := json.Unmarshal([]byte(in), &q); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got := q.Age.OrDefault(); got != "true" {
		t.Errorf("Age.OrDefault() = %q, want true", got)
	}

	out, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != in {
		t.Errorf("Marshal() = %s, want %s", out, in)
	}
}

func TestField_OrDefault(t *testing.T) {
	if got := domain.Text("  ").OrDefault(); got != domain.NotSpecified {
		t.Errorf("blank OrDefault() = %q, want %q", got, domain.NotSpecified)
	}
	if got := domain.Number(30).OrDefault(); got != "30" {
		t.Errorf("Number(30).OrDefault() = %q, want 30", got)
	}
}

func TestOutcome_Retryable(t *testing.T) {
	if (domain.Outcome{Status: domain.StatusOK}).Retryable() {
		t.Error("ok outcome should not be retryable")
	}
	if !(domain.Outcome{Status: domain.StatusRateLimited}).Retryable() {
		t.Error("rate limited outcome should be retryable")
	}
}

func TestTimestamps(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 891_000_000, time.FixedZone("X", 3600))
	got := domain.FormatTimestamp(at)
	if got != "2026-03-04T04:06:07.891Z" {
		t.Fatalf("FormatTimestamp() = %s", got)
	}

	parsed, err := domain.ParseTimestamp(got)
	if err != nil || !parsed.Equal(at) {
		t.Errorf("ParseTimestamp(%s) = %v, %v", got, parsed, err)
	}
	if _, err := domain.ParseTimestamp("2026-03-04T05:06:07+01:00"); err != nil {
		t.Errorf("RFC 3339 input rejected: %v", err)
	}
}

func TestAsProviderError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.NewProviderError(domain.FailureAuth, domain.ProviderOpenAI, nil))
	if pe := domain.AsProviderError(wrapped, domain.ProviderGemini); pe.Kind != domain.FailureAuth || pe.Provider != domain.ProviderOpenAI {
		t.Errorf("AsProviderError(wrapped) = %+v", pe)
	}

	pe := domain.AsProviderError(errors.New("boom"), domain.ProviderGemini)
	if pe.Kind != domain.FailureProvider || pe.Provider != domain.ProviderGemini {
		t.Errorf("AsProviderError(untyped) = %+v", pe)
	}
}
