// Package query reports on the stored query history.
package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// Classifier maps symptom text to a category.
type Classifier func(symptoms string) domain.Category

// Service reads the history log for the CLI.
type Service struct {
	History  ports.HistoryRepository
	Classify Classifier
}

// Count is one bucket of a frequency table.
type Count struct {
	Key   string
	Count int
}

// Stats summarizes the whole history log.
type Stats struct {
	Total      int
	Newest     time.Time
	Oldest     time.Time
	BySource   []Count
	Categories []Count
	// Fallbacks is the share of entries produced by the rule-based fallback, in percent.
	Fallbacks float64
}

// Recent returns up to limit entries, newest first.
func (s *Service) Recent(ctx context.Context, limit, offset int) (domain.HistoryPage, error) {
	if s.History == nil {
		return domain.HistoryPage{}, errors.New("query.Service: history store unavailable")
	}
	return s.History.List(ctx, limit, offset)
}

// Stats walks every stored entry page by page.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.History == nil {
		return Stats{}, errors.New("query.Service: history store unavailable")
	}

	sources := make(map[string]int)
	categories := make(map[string]int)
	var stats Stats

	for offset := 0; ; offset += domain.MaxHistoryLimit {
		page, err := s.History.List(ctx, domain.MaxHistoryLimit, offset)
		if err != nil {
			return Stats{}, fmt.Errorf("read history: %w", err)
		}
		stats.Total = page.Total
		for _, rec := range page.Records {
			sources[string(rec.Source)]++
			if s.Classify != nil {
				categories[string(s.Classify(rec.Symptoms))]++
			}
			at := rec.Time()
			if at.IsZero() {
				continue
			}
			if stats.Newest.IsZero() || at.After(stats.Newest) {
				stats.Newest = at
			}
			if stats.Oldest.IsZero() || at.Before(stats.Oldest) {
				stats.Oldest = at
			}
		}
		if len(page.Records) == 0 || offset+len(page.Records) >= page.Total {
			break
		}
	}

	stats.BySource = TopCounts(sources, 0)
	stats.Categories = TopCounts(categories, 5)
	stats.Fallbacks = Percentage(sources[string(domain.SourceFallback)], stats.Total)
	return stats, nil
}

// TopCounts orders a frequency map by count (descending) then key. A limit <= 0 keeps all.
func TopCounts(freq map[string]int, limit int) []Count {
	counts := make([]Count, 0, len(freq))
	for key, n := range freq {
		counts = append(counts, Count{Key: key, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count == counts[j].Count {
			return counts[i].Key < counts[j].Key
		}
		return counts[i].Count > counts[j].Count
	})
	if limit > 0 && len(counts) > limit {
		return counts[:limit]
	}
	return counts
}

// Percentage returns part/total*100, or 0 for an empty total.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
