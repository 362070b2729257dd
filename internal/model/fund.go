package model

import "time"

// EmergencyFund is the singleton emergency-fund record. TargetAmount is
// derived, not ground truth: the metrics engine recomputes it from a
// six-month needs projection on each dashboard load and persists it back.
type EmergencyFund struct {
	LastUpdated         time.Time
	TargetAmount        float64
	CurrentAmount       float64
	MonthlyContribution float64
}
