// Package report builds date-range spending reports from the ledger store
// and serializes them for export. Reports carry plain amounts; currency
// symbols and locale formatting belong to whatever renders them.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/hollis-b/budgeteer/internal/service"
)

// Report is the full set of aggregates over a date range.
type Report struct {
	Start         time.Time
	End           time.Time
	DailySpending []service.DailyTotal
	Distribution  []service.CategoryTotal
	Comparison    []service.MonthComparison
}

// Generator builds reports from the store.
type Generator struct {
	store service.Storage
}

// NewGenerator creates a report generator over the given store.
func NewGenerator(store service.Storage) *Generator {
	return &Generator{store: store}
}

// Generate computes the three report aggregates over [start, end].
func (g *Generator) Generate(ctx context.Context, start, end time.Time) (*Report, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid report range: %s after %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	daily, err := g.store.GetDailySpending(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily spending: %w", err)
	}

	distribution, err := g.store.GetCategoryDistribution(ctx, start, end, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to compute category distribution: %w", err)
	}

	comparison, err := g.store.GetMonthlyComparison(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly comparison: %w", err)
	}

	return &Report{
		Start:         start,
		End:           end,
		DailySpending: daily,
		Distribution:  distribution,
		Comparison:    comparison,
	}, nil
}
