package metrics

import (
	"context"
	"time"

	"github.com/hollis-b/budgeteer/internal/common"
	"github.com/hollis-b/budgeteer/internal/model"
)

// Snapshot is one dashboard load: every derived metric computed together.
// Metrics are independently fault-isolated; a failed store read leaves its
// metric zeroed and the rest intact.
type Snapshot struct {
	ComputedAt         time.Time
	Budget             BudgetOverview
	Emergency          EmergencyFundStatus
	Income             MonthlyIncome
	Goals              GoalsSummary
	Trends             []MonthTrend
	TopCategories      []TopCategory
	Insights           []Insight
	RecentTransactions []model.Transaction
}

// recentTransactionCount is how many ledger entries the dashboard shows.
const recentTransactionCount = 10

// Snapshot computes a full dashboard snapshot. Individual metric failures
// are logged and degrade to the zero value for that metric only; the
// snapshot itself never fails.
func (e *Engine) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{ComputedAt: e.now()}

	var err error
	if snap.Budget, err = e.BudgetOverview(ctx); err != nil {
		common.LogError(err, "metric unavailable", common.Fields{"metric": "budget_overview"})
		snap.Budget = BudgetOverview{}
	}
	if snap.Emergency, err = e.EmergencyFund(ctx); err != nil {
		common.LogError(err, "metric unavailable", common.Fields{"metric": "emergency_fund"})
		snap.Emergency = EmergencyFundStatus{}
	}
	if snap.Income, err = e.MonthlyIncome(ctx); err != nil {
		common.LogError(err, "metric unavailable", common.Fields{"metric": "monthly_income"})
		snap.Income = MonthlyIncome{}
	}
	if snap.Goals, err = e.SavingsGoals(ctx); err != nil {
		common.LogError(err, "metric unavailable", common.Fields{"metric": "savings_goals"})
		snap.Goals = GoalsSummary{}
	}
	if snap.Trends, err = e.SpendingTrends(ctx); err != nil {
		common.LogError(err, "metric unavailable", common.Fields{"metric": "spending_trends"})
		snap.Trends = nil
	}
	if snap.TopCategories, err = e.TopCategories(ctx); err != nil {
		common.LogError(err, "metric unavailable", common.Fields{"metric": "top_categories"})
		snap.TopCategories = nil
	}
	if snap.Insights, err = e.Insights(ctx); err != nil {
		common.LogError(err, "metric unavailable", common.Fields{"metric": "insights"})
		snap.Insights = nil
	}
	if snap.RecentTransactions, err = e.store.GetRecentTransactions(ctx, recentTransactionCount); err != nil {
		common.LogError(err, "metric unavailable", common.Fields{"metric": "recent_transactions"})
		snap.RecentTransactions = nil
	}

	return snap
}

// SnapshotCache short-circuits snapshot recomputation within a TTL. It
// holds an explicit (value, computed_at) pair against the engine's clock,
// so staleness is a deterministic function of the injected time source.
// Stale reads inside the TTL window are acceptable; this is a latency
// tradeoff, not a correctness mechanism.
type SnapshotCache struct {
	engine *Engine
	last   *Snapshot
	ttl    time.Duration
}

// DefaultSnapshotTTL is how long a dashboard snapshot stays fresh.
const DefaultSnapshotTTL = 5 * time.Minute

// NewSnapshotCache creates a cache over the engine with the given TTL.
// A non-positive TTL disables caching.
func NewSnapshotCache(engine *Engine, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		engine: engine,
		ttl:    ttl,
	}
}

// Get returns the cached snapshot when it is still fresh, recomputing
// otherwise.
func (c *SnapshotCache) Get(ctx context.Context) Snapshot {
	now := c.engine.now()
	if c.last != nil && c.ttl > 0 && now.Sub(c.last.ComputedAt) <= c.ttl {
		return *c.last
	}

	snap := c.engine.Snapshot(ctx)
	c.last = &snap
	return snap
}

// Invalidate drops the cached snapshot so the next Get recomputes.
func (c *SnapshotCache) Invalidate() {
	c.last = nil
}
