package query

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/infrastructure/heuristic"
	"github.com/doeshing/symcheck-go/internal/infrastructure/history"
)

func seed(t *testing.T, store *history.FileStore, n int, source domain.Source, symptoms string, start time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := store.Append(context.Background(), domain.HistoryRecord{
			ID:        fmt.Sprintf("%s-%d", source, i),
			Timestamp: domain.FormatTimestamp(start.Add(time.Duration(i) * time.Minute)),
			Symptoms:  symptoms,
			Analysis:  "text",
			Source:    source,
		})
		require.NoError(t, err)
	}
}

func TestService_Stats(t *testing.T) {
	store := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	seed(t, store, 120, domain.SourceGemini, "throbbing headache", base)
	seed(t, store, 30, domain.SourceFallback, "dry cough", base.Add(-time.Hour))
	seed(t, store, 10, domain.SourceDemo, "lower back pain", base.Add(24*time.Hour))

	svc := &Service{History: store, Classify: heuristic.Classify}
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 160, stats.Total)
	assert.Equal(t, []Count{{"gemini", 120}, {"fallback", 30}, {"intelligent-demo", 10}}, stats.BySource)
	assert.Equal(t, []Count{{"headache", 120}, {"cough-throat", 30}, {"pain", 10}}, stats.Categories)
	assert.InDelta(t, 18.75, stats.Fallbacks, 0.001)
	assert.Equal(t, base.Add(-time.Hour), stats.Oldest)
	assert.Equal(t, base.Add(24*time.Hour+9*time.Minute), stats.Newest)
}

func TestService_StatsEmpty(t *testing.T) {
	svc := &Service{History: history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))}
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.BySource)
	assert.Zero(t, stats.Fallbacks)
}

func TestService_Recent(t *testing.T) {
	store := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	seed(t, store, 3, domain.SourceOpenAI, "fever", time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC))

	page, err := (&Service{History: store}).Recent(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "openai-2", page.Records[0].ID)
}

func TestService_NoStore(t *testing.T) {
	_, err := (&Service{}).Stats(context.Background())
	assert.Error(t, err)
}

func TestTopCounts(t *testing.T) {
	freq := map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}
	assert.Equal(t, []Count{{"c", 5}, {"a", 2}, {"b", 2}}, TopCounts(freq, 3))
	assert.Len(t, TopCounts(freq, 0), 4)
}
