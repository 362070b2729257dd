package model

import "time"

// Frequency is the cadence of a recurring income entry.
type Frequency string

const (
	// FrequencyMonthly repeats every calendar month.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyQuarterly repeats every three calendar months.
	FrequencyQuarterly Frequency = "quarterly"
	// FrequencyYearly repeats every calendar year.
	FrequencyYearly Frequency = "yearly"
)

// Valid reports whether the frequency is one of the known values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// NextDate returns the next due date after ref for this frequency.
// Advancing by months clamps to the last day of the target month when the
// source day does not exist there (Jan 31 + monthly = Feb 29 in a leap
// year, Mar 31 + monthly = Apr 30). The zero return for an unknown
// frequency lets callers treat one-time entries uniformly.
func (f Frequency) NextDate(ref time.Time) time.Time {
	switch f {
	case FrequencyMonthly:
		return addMonthsClamped(ref, 1)
	case FrequencyQuarterly:
		return addMonthsClamped(ref, 3)
	case FrequencyYearly:
		return addMonthsClamped(ref, 12)
	}
	return time.Time{}
}

// addMonthsClamped adds n calendar months to t, clamping the day to the
// last valid day of the target month. time.AddDate normalizes overflow
// (Jan 31 + 1 month = Mar 2/3) which is not what calendar arithmetic wants.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}

// IncomeEntry represents a recorded income event, distinct from
// income-kind transactions in the ledger. Recurring entries carry a
// frequency and a next due date computed when the entry is created or
// edited; the due date is advisory and is not advanced on read.
type IncomeEntry struct {
	Date        time.Time
	CreatedAt   time.Time
	NextDate    *time.Time
	Source      string
	Frequency   Frequency // set iff IsRecurring
	ID          int
	Amount      float64
	IsRecurring bool
}
