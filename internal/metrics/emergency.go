package metrics

import (
	"context"
	"fmt"
)

// EmergencyFundStatus is the emergency fund's derived position. Target is
// six months of projected "needs" spending, recomputed on every load.
type EmergencyFundStatus struct {
	Target              float64
	Current             float64
	MonthlyContribution float64
	ProgressPct         float64
}

// EmergencyFund recomputes the fund target from the trailing-6-month needs
// projection, persists it, and returns the fund's status. Each need
// category contributes its average monthly spend over the window when it
// has transactions there, else its configured budget; a category with
// neither contributes nothing.
func (e *Engine) EmergencyFund(ctx context.Context) (EmergencyFundStatus, error) {
	since := e.now().AddDate(0, -6, 0)

	projection, err := e.store.GetNeedsMonthlyProjection(ctx, since)
	if err != nil {
		return EmergencyFundStatus{}, fmt.Errorf("failed to compute needs projection: %w", err)
	}
	target := round2(projection * 6)

	// The stored target is derived, not ground truth: overwrite it before
	// reporting so the persisted row always matches what was shown.
	if err := e.store.UpdateEmergencyFundTarget(ctx, target); err != nil {
		return EmergencyFundStatus{}, fmt.Errorf("failed to persist fund target: %w", err)
	}

	fund, err := e.store.GetEmergencyFund(ctx)
	if err != nil {
		return EmergencyFundStatus{}, fmt.Errorf("failed to read emergency fund: %w", err)
	}

	status := EmergencyFundStatus{
		Target:              target,
		Current:             fund.CurrentAmount,
		MonthlyContribution: fund.MonthlyContribution,
	}
	if target > 0 {
		status.ProgressPct = fund.CurrentAmount / target * 100
	}
	return status, nil
}
