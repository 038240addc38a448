package service

import (
	"context"

	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/ports"
	"sovereign/internal/sovereign/store"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

// unwind closes the position and books the proceeds. Both the governance and
// the inactivity path end here. The close is the last collaborator effect;
// the treasury's cut stays in the vault until settleTreasury pays it.
func (o *op) unwind(caller id.ParticipantID, trigger string) error {
	if err := o.sov.CanUnwind(); err != nil {
		return err
	}
	escrow, err := o.loadEscrow()
	if err != nil {
		return err
	}
	currency, tokens, err := o.closeOrRecover(escrow)
	if err != nil {
		return err
	}
	proceeds, err := o.sov.ComputeUnwind(currency, tokens, o.cfg.UnwindFeeBps, trigger, o.now)
	if err != nil {
		return err
	}
	escrow.Unlock(o.now)
	if err := o.sov.CompleteUnwind(proceeds, o.now); err != nil {
		return err
	}
	o.emit(audit.EventUnwindExecuted, caller, map[string]uint64{
		"currency":      proceeds.Currency,
		"tokens":        proceeds.Tokens,
		"fee":           proceeds.Fee,
		"investor_pool": proceeds.InvestorPool,
		"surplus":       proceeds.Surplus,
		"treasury_owed": proceeds.TreasuryOwed,
	})
	return nil
}

// closeOrRecover closes the position. When an earlier attempt already closed
// it but did not commit, the proceeds are still in the vault: whatever the
// vault holds beyond its fee liabilities came from the position.
func (o *op) closeOrRecover(escrow *models.CreatorEscrow) (uint64, uint64, error) {
	currency, tokens, err := o.closePosition()
	if err == nil || !dErrors.Is(err, ports.ErrPositionClosed) {
		return currency, tokens, err
	}
	o.s.logger.WarnContext(o.ctx, "position already closed; recovering proceeds from vault",
		"sovereign_id", o.sov.ID.String(),
		"position_ref", o.sov.PositionRef,
	)
	records, err := store.ListDeposits(o.ctx, o.txn, o.sov.ID)
	if err != nil {
		return 0, 0, err
	}
	owedCurrency, owedTokens, err := models.VaultLiabilities(o.sov, escrow, records)
	if err != nil {
		return 0, 0, err
	}
	vault := o.sov.Vault()
	heldCurrency, err := o.balanceOf(o.cfg.CurrencyToken, vault)
	if err != nil {
		return 0, 0, err
	}
	heldTokens, err := o.balanceOf(o.sov.TokenRef, vault)
	if err != nil {
		return 0, 0, err
	}
	return bps.SaturatingSub(heldCurrency, owedCurrency), bps.SaturatingSub(heldTokens, owedTokens), nil
}

// SettleUnwindFee pays the treasury the unwind fee and surplus still owed
// from an unwound sovereign.
func (s *Service) SettleUnwindFee(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.execute(ctx, "sovereign.settle_unwind_fee", sid, func(o *op) error {
		if err := o.sov.Require(models.OpSettleUnwindFee); err != nil {
			return err
		}
		due := o.sov.TreasuryDue()
		if due == 0 {
			return dErrors.New(dErrors.CodeState, "nothing owed to the treasury")
		}
		if err := o.sov.RecordTreasuryPayment(due, o.now); err != nil {
			return err
		}
		if err := o.pay(o.sov.Vault(), o.cfg.Treasury, due); err != nil {
			return err
		}
		o.flow("treasury", due)
		o.emit(audit.EventUnwindFeeSettled, caller, map[string]uint64{"currency": due})
		return nil
	})
}

// settleTreasury runs right after an unwind commits. A failure leaves the
// entitlement for SettleUnwindFee and does not fail the unwind.
func (s *Service) settleTreasury(ctx context.Context, sov *models.Sovereign, caller id.ParticipantID) *models.Sovereign {
	if sov.TreasuryDue() == 0 {
		return sov
	}
	settled, err := s.SettleUnwindFee(ctx, sov.ID, caller)
	if err != nil {
		s.logger.WarnContext(ctx, "unwind fee not settled; retry with settle_unwind_fee",
			"sovereign_id", sov.ID.String(),
			"treasury_due", sov.TreasuryDue(),
			"error", err,
		)
		return sov
	}
	return settled
}

// UnwindClaim is what an investor received from an unwound sovereign.
type UnwindClaim struct {
	Payout       uint64 `json:"payout"`
	FeeCurrency  uint64 `json:"fee_currency"`
	FeeTokens    uint64 `json:"fee_tokens"`
	Certificate  string `json:"certificate"`
	PoolClaimed  uint64 `json:"pool_claimed"`
	PoolCapacity uint64 `json:"pool_capacity"`
}

// ClaimInvestorUnwind pays the holder of a deposit's certificate its share of
// the investor pool, capped at the original deposit, plus any unclaimed fees,
// and burns the certificate.
func (s *Service) ClaimInvestorUnwind(ctx context.Context, sid id.SovereignID, depositor, caller id.ParticipantID) (*UnwindClaim, error) {
	var out UnwindClaim
	_, err := s.execute(ctx, "sovereign.claim_investor_unwind", sid, func(o *op) error {
		if err := o.sov.Require(models.OpClaimInvestorUnwind); err != nil {
			return err
		}
		rec, err := store.GetDeposit(o.ctx, o.txn, o.sov.ID, depositor)
		if err != nil {
			return err
		}
		if rec.UnwindClaimed {
			return dErrors.New(dErrors.CodeState, "unwind proceeds already claimed")
		}
		if err := o.requireHolder(rec.CertificateRef, caller); err != nil {
			return err
		}
		payout, err := rec.UnwindPayout(o.sov.Unwind.InvestorPool)
		if err != nil {
			return err
		}
		feeCurrency, feeTokens, err := rec.Claimable(o.sov)
		if err != nil {
			return err
		}
		if err := rec.MarkFeesClaimed(feeCurrency, feeTokens, o.now); err != nil {
			return err
		}
		rec.UnwindClaimed = true
		if err := o.sov.RecordInvestorUnwindClaim(payout, o.now); err != nil {
			return err
		}
		vault := o.sov.Vault()
		if err := o.pay(vault, caller, payout+feeCurrency); err != nil {
			return err
		}
		if err := o.transfer(o.sov.TokenRef, vault, caller, feeTokens); err != nil {
			return err
		}
		if err := store.SaveDeposit(o.ctx, o.txn, rec); err != nil {
			return err
		}
		if err := o.burn(rec.CertificateRef); err != nil {
			return err
		}
		out = UnwindClaim{
			Payout:       payout,
			FeeCurrency:  feeCurrency,
			FeeTokens:    feeTokens,
			Certificate:  rec.CertificateRef,
			PoolClaimed:  o.sov.Unwind.InvestorClaimed,
			PoolCapacity: o.sov.Unwind.InvestorPool,
		}
		o.flow("unwind", payout)
		o.emit(audit.EventInvestorUnwindClaimed, caller, map[string]uint64{
			"payout":       payout,
			"fee_currency": feeCurrency,
			"fee_tokens":   feeTokens,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ClaimCreatorUnwind pays the creator the position's token proceeds, plus
// the escrow-purchased tokens when they were not claimed earlier.
func (s *Service) ClaimCreatorUnwind(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (uint64, error) {
	return s.creatorPayout(ctx, "sovereign.claim_creator_unwind", sid, caller, models.OpClaimCreatorUnwind,
		func(o *op, e *models.CreatorEscrow) (uint64, error) {
			amount, err := e.ClaimUnwind(o.sov.Unwind.CreatorTokenPool, o.now)
			if err != nil {
				return 0, err
			}
			if err := o.transfer(o.sov.TokenRef, o.sov.Vault(), caller, amount); err != nil {
				return 0, err
			}
			o.emit(audit.EventCreatorUnwindClaimed, caller, map[string]uint64{"tokens": amount})
			return amount, nil
		})
}
