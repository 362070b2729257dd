package model

import "time"

// SavingsGoal represents a named savings target. MonthlyContribution is
// informational; no automatic postings are made against it.
type SavingsGoal struct {
	TargetDate          time.Time
	CreatedAt           time.Time
	Name                string
	ID                  int
	TargetAmount        float64
	CurrentAmount       float64
	MonthlyContribution float64
}

// ProgressPct returns saved-to-target progress as a percentage, 0 when the
// target amount is zero.
func (g SavingsGoal) ProgressPct() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}
