package service

import (
	"context"
	"time"

	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/store"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

// DepositResult reports how much of a deposit was taken. The rest never
// left the depositor.
type DepositResult struct {
	Sovereign *models.Sovereign `json:"sovereign"`
	Accepted  uint64            `json:"accepted"`
	Refunded  uint64            `json:"refunded"`
	Escrow    bool              `json:"escrow"`
}

// Deposit adds to a Bonding sovereign. The creator's deposits fill the
// escrow; everyone else's are capped at the remaining gap to target.
func (s *Service) Deposit(ctx context.Context, sid id.SovereignID, depositor id.ParticipantID, amount uint64) (*DepositResult, error) {
	res := &DepositResult{}
	sov, err := s.execute(ctx, "sovereign.deposit", sid, func(o *op) error {
		if err := o.requireNotPaused(); err != nil {
			return err
		}
		if err := o.sov.Require(models.OpDeposit); err != nil {
			return err
		}
		if o.sov.DeadlinePassed(o.now) {
			return dErrors.Newf(dErrors.CodeTiming, "bonding ended at %s", o.sov.Deadline.Format(time.RFC3339))
		}
		if depositor.IsZero() {
			return dErrors.New(dErrors.CodeValidation, "depositor is required")
		}
		if o.sov.IsCreator(depositor) {
			return o.depositEscrow(depositor, amount, res)
		}

		gap := o.sov.RemainingGap()
		if gap == 0 {
			return dErrors.New(dErrors.CodeState, "target already met")
		}
		if err := o.checkMinimum(amount, gap); err != nil {
			return err
		}
		accepted := min(amount, gap)

		rec, err := store.FindDeposit(o.ctx, o.txn, o.sov.ID, depositor)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = models.NewDepositRecord(o.sov.ID, depositor, o.now)
		}
		first := rec.IsNew()
		if err := rec.Credit(accepted, o.now); err != nil {
			return err
		}
		if err := o.sov.AddRaised(accepted, first, o.now); err != nil {
			return err
		}
		if err := o.pay(depositor, o.sov.Vault(), accepted); err != nil {
			return err
		}
		if err := store.SaveDeposit(o.ctx, o.txn, rec); err != nil {
			return err
		}
		res.Accepted, res.Refunded = accepted, amount-accepted
		o.flow("deposit", accepted)
		o.emit(audit.EventDepositMade, depositor, map[string]uint64{
			"amount":       accepted,
			"refunded":     res.Refunded,
			"total_raised": o.sov.TotalRaised,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Sovereign = sov
	return res, nil
}

// checkMinimum applies min_deposit, waived for a deposit that fills a
// remaining room smaller than the minimum.
func (o *op) checkMinimum(amount, room uint64) error {
	if amount == 0 {
		return dErrors.New(dErrors.CodeValidation, "deposit amount must be positive")
	}
	if amount >= o.cfg.MinDeposit {
		return nil
	}
	if room < o.cfg.MinDeposit && amount >= room {
		return nil
	}
	return dErrors.Newf(dErrors.CodeValidation, "deposit %d below minimum %d", amount, o.cfg.MinDeposit)
}

func (o *op) depositEscrow(creator id.ParticipantID, amount uint64, res *DepositResult) error {
	escrow, err := o.loadEscrow()
	if err != nil {
		return err
	}
	if err := o.checkMinimum(amount, bps.SaturatingSub(o.sov.EscrowCap, escrow.Amount)); err != nil {
		return err
	}
	accepted, err := escrow.Accept(amount, o.sov.EscrowCap, o.now)
	if err != nil {
		return err
	}
	if err := o.pay(creator, o.sov.Vault(), accepted); err != nil {
		return err
	}
	res.Accepted, res.Refunded, res.Escrow = accepted, amount-accepted, true
	o.flow("deposit", accepted)
	o.emit(audit.EventDepositMade, creator, map[string]uint64{
		"escrow_amount": accepted,
		"refunded":      res.Refunded,
	})
	return nil
}

// Withdraw returns part or all of an investor's deposit during Bonding.
func (s *Service) Withdraw(ctx context.Context, sid id.SovereignID, depositor id.ParticipantID, amount uint64) (*models.Sovereign, error) {
	return s.execute(ctx, "sovereign.withdraw", sid, func(o *op) error {
		if err := o.sov.Require(models.OpWithdraw); err != nil {
			return err
		}
		rec, err := store.GetDeposit(o.ctx, o.txn, o.sov.ID, depositor)
		if err != nil {
			return err
		}
		closed, err := rec.Debit(amount, o.now)
		if err != nil {
			return err
		}
		if err := o.sov.SubRaised(amount, closed, o.now); err != nil {
			return err
		}
		if err := o.pay(o.sov.Vault(), depositor, amount); err != nil {
			return err
		}
		if closed {
			err = store.DeleteDeposit(o.ctx, o.txn, o.sov.ID, depositor)
		} else {
			err = store.SaveDeposit(o.ctx, o.txn, rec)
		}
		if err != nil {
			return err
		}
		o.flow("refund", amount)
		o.emit(audit.EventDepositWithdrawn, depositor, map[string]uint64{
			"amount":       amount,
			"remaining":    rec.Amount,
			"total_raised": o.sov.TotalRaised,
		})
		return nil
	})
}
