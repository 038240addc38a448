package models

import (
	"time"

	"sovereign/pkg/bps"
	dErrors "sovereign/pkg/domain-errors"
)

// ActivityCheck is the two-call inactivity check. Initiated == false always
// comes with zero snapshots.
type ActivityCheck struct {
	Initiated       bool      `json:"initiated"`
	SnapshotA       uint64    `json:"snapshot_a"`
	SnapshotB       uint64    `json:"snapshot_b"`
	InitiatedAt     time.Time `json:"initiated_at,omitzero"`
	LastCancelledAt time.Time `json:"last_cancelled_at,omitzero"`
}

// ActivityOutcome reports what an executed check decided.
type ActivityOutcome struct {
	GrowthA  uint64 `json:"growth_a"`
	GrowthB  uint64 `json:"growth_b"`
	Inactive bool   `json:"inactive"`
}

// CanInitiate enforces the single in-flight check and the post-cancel cooldown.
func (c *ActivityCheck) CanInitiate(now time.Time) error {
	if c.Initiated {
		return dErrors.New(dErrors.CodeState, "activity check already in progress")
	}
	if !c.LastCancelledAt.IsZero() && now.Before(c.LastCancelledAt.Add(ActivityCooldown)) {
		return dErrors.Newf(dErrors.CodeTiming, "activity check cooling down until %s",
			c.LastCancelledAt.Add(ActivityCooldown).Format(time.RFC3339))
	}
	return nil
}

func (c *ActivityCheck) Begin(a, b uint64, now time.Time) {
	c.Initiated = true
	c.SnapshotA = a
	c.SnapshotB = b
	c.InitiatedAt = now
}

// CanExecute checks one is running and the window has elapsed.
func (c *ActivityCheck) CanExecute(window time.Duration, now time.Time) error {
	if !c.Initiated {
		return dErrors.New(dErrors.CodeState, "no activity check in progress")
	}
	if now.Before(c.InitiatedAt.Add(window)) {
		return dErrors.Newf(dErrors.CodeTiming, "activity check can execute from %s",
			c.InitiatedAt.Add(window).Format(time.RFC3339))
	}
	return nil
}

// Evaluate measures counter growth since the snapshot. The pool counts as
// inactive only when both counters grew less than threshold.
func (c *ActivityCheck) Evaluate(a, b, threshold uint64) ActivityOutcome {
	out := ActivityOutcome{
		GrowthA: bps.SaturatingSub(a, c.SnapshotA),
		GrowthB: bps.SaturatingSub(b, c.SnapshotB),
	}
	out.Inactive = out.GrowthA < threshold && out.GrowthB < threshold
	return out
}

// Reset returns the check to idle. cancelled stamps the cooldown.
func (c *ActivityCheck) Reset(cancelled bool, now time.Time) {
	last := c.LastCancelledAt
	if cancelled {
		last = now
	}
	*c = ActivityCheck{LastCancelledAt: last}
}
