package metrics

import (
	"context"
	"time"

	"github.com/hollis-b/budgeteer/internal/model"
)

// GoalProgress is a savings goal annotated with progress and time
// remaining. DaysRemaining is clamped to zero for display; Overdue marks
// goals whose target date has actually passed.
type GoalProgress struct {
	Goal          model.SavingsGoal
	ProgressPct   float64
	DaysRemaining int
	Overdue       bool
}

// GoalsSummary aggregates the active savings goals: those whose target
// date has not passed. Overdue goals stay in the store but drop out of the
// aggregate counts.
type GoalsSummary struct {
	Goals      []GoalProgress
	Count      int
	TotalSaved float64
}

// SavingsGoals computes progress over the active goals, soonest first.
func (e *Engine) SavingsGoals(ctx context.Context) (GoalsSummary, error) {
	today := truncateToDay(e.now())

	goals, err := e.store.GetActiveGoals(ctx, today)
	if err != nil {
		return GoalsSummary{}, err
	}

	summary := GoalsSummary{
		Goals: make([]GoalProgress, 0, len(goals)),
		Count: len(goals),
	}
	for _, goal := range goals {
		summary.TotalSaved += goal.CurrentAmount
		summary.Goals = append(summary.Goals, goalProgress(goal, today))
	}
	return summary, nil
}

// goalProgress computes one goal's progress relative to today.
func goalProgress(goal model.SavingsGoal, today time.Time) GoalProgress {
	gp := GoalProgress{
		Goal:        goal,
		ProgressPct: goal.ProgressPct(),
	}

	days := daysBetween(today, goal.TargetDate)
	if days < 0 {
		gp.Overdue = true
		days = 0
	}
	gp.DaysRemaining = days
	return gp
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from one date to another. Both dates
// are re-anchored at UTC midnight first, so stored target dates (UTC) and
// a local-zone today compare by calendar date, not by elapsed hours.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	u := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(u.Sub(f).Hours() / 24)
}
