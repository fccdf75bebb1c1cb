package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/doeshing/symcheck-go/internal/domain"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.AnalysisCompleted(domain.SourceFallback, domain.StatusRateLimited)
	r.AnalysisCompleted(domain.SourceFallback, domain.StatusRateLimited)
	r.ProviderFailed(domain.ProviderOpenAI, domain.FailureRateLimited)
	r.HistoryAppendFailed()

	if got := testutil.ToFloat64(r.analyses.WithLabelValues("fallback", "rate_limited")); got != 2 {
		t.Errorf("analyses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.providerFailures.WithLabelValues("openai", "rate_limited")); got != 1 {
		t.Errorf("provider failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.appendFailures); got != 1 {
		t.Errorf("append failures = %v, want 1", got)
	}
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.ObserveHTTP("POST /api/symptoms/analyze", http.MethodPost, http.StatusOK, 120*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, want := range []string{"symcheck_http_requests_total", "symcheck_http_request_duration_seconds_bucket", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %s", want)
		}
	}
}
