package service

import (
	"context"

	"sovereign/internal/sovereign/models"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

// InitiateActivityCheck snapshots the position's fee-growth counters.
func (s *Service) InitiateActivityCheck(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.execute(ctx, "sovereign.initiate_activity_check", sid, func(o *op) error {
		if err := o.sov.Require(models.OpInitiateActivityCheck); err != nil {
			return err
		}
		if err := o.sov.ActivityCheck.CanInitiate(o.now); err != nil {
			return err
		}
		a, b, err := o.readFeeGrowth()
		if err != nil {
			return err
		}
		o.sov.ActivityCheck.Begin(a, b, o.now)
		o.sov.UpdatedAt = o.now
		o.emit(audit.EventActivityCheckInitiated, caller, map[string]uint64{"snapshot_a": a, "snapshot_b": b})
		return nil
	})
}

// ActivityResult reports an executed check.
type ActivityResult struct {
	Sovereign *models.Sovereign      `json:"sovereign"`
	Outcome   models.ActivityOutcome `json:"outcome"`
}

// ExecuteActivityCheck compares the counters with the snapshot once the
// inactivity window has elapsed. An inactive pool is unwound; otherwise the
// check is cancelled and the cooldown starts.
func (s *Service) ExecuteActivityCheck(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*ActivityResult, error) {
	var outcome models.ActivityOutcome
	sov, err := s.execute(ctx, "sovereign.execute_activity_check", sid, func(o *op) error {
		if err := o.sov.Require(models.OpExecuteActivityCheck); err != nil {
			return err
		}
		if err := o.sov.ActivityCheck.CanExecute(o.cfg.InactivityWindow, o.now); err != nil {
			return err
		}
		a, b, err := o.readFeeGrowth()
		if err != nil {
			return err
		}
		outcome = o.sov.ActivityCheck.Evaluate(a, b, o.cfg.MinFeeGrowthThreshold)
		o.emit(audit.EventActivityCheckExecuted, caller, map[string]uint64{
			"growth_a": outcome.GrowthA,
			"growth_b": outcome.GrowthB,
			"inactive": boolAmount(outcome.Inactive),
		})
		if outcome.Inactive {
			return o.unwind(caller, "inactivity")
		}
		o.sov.ActivityCheck.Reset(true, o.now)
		o.sov.UpdatedAt = o.now
		o.emit(audit.EventActivityCheckCancelled, caller, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if outcome.Inactive {
		sov = s.settleTreasury(ctx, sov, caller)
	}
	return &ActivityResult{Sovereign: sov, Outcome: outcome}, nil
}

// CancelActivityCheck lets the creator abandon a running check. It counts as
// activity and starts the cooldown.
func (s *Service) CancelActivityCheck(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.execute(ctx, "sovereign.cancel_activity_check", sid, func(o *op) error {
		if err := o.sov.Require(models.OpCancelActivityCheck); err != nil {
			return err
		}
		if err := o.sov.RequireCreator(caller); err != nil {
			return err
		}
		if !o.sov.ActivityCheck.Initiated {
			return dErrors.New(dErrors.CodeState, "no activity check in progress")
		}
		o.sov.ActivityCheck.Reset(true, o.now)
		o.sov.LastActivityAt = o.now
		o.sov.UpdatedAt = o.now
		o.emit(audit.EventActivityCheckCancelled, caller, nil)
		return nil
	})
}
