// Package articles holds article domain logic shared by the HTTP
// adapters. The per-year stats are computed once here; the JSON endpoint
// and the HTML view are both thin renderings of the same result.
package articles

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/newsdesk/storage"
)

// StatsStore is the slice of the article repository the service needs.
// *storage.Articles satisfies it.
type StatsStore interface {
	StatsByYear(ctx context.Context) ([]storage.YearStat, error)
}

// Stats is the per-year article breakdown plus the overall total.
type Stats struct {
	Years []storage.YearStat `json:"years"`
	Total int64              `json:"total"`
}

type Service struct {
	store StatsStore
}

func NewService(store StatsStore) *Service {
	return &Service{store: store}
}

// StatsByYear returns the yearly article counts, ascending by year.
// Years with no articles are absent, matching the aggregation output.
func (s *Service) StatsByYear(ctx context.Context) (Stats, error) {
	years, err := s.store.StatsByYear(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("computing article stats: %w", err)
	}

	stats := Stats{Years: years}
	for _, y := range years {
		stats.Total += y.TotalArticles
	}
	return stats, nil
}
