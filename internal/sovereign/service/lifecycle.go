package service

import (
	"context"

	pstore "sovereign/internal/protocol/store"
	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/ports"
	"sovereign/internal/sovereign/store"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

// Create opens a new sovereign in Bonding. It runs under the protocol lock
// because it bumps the protocol's lifetime counters.
func (s *Service) Create(ctx context.Context, p models.CreateParams) (*models.Sovereign, error) {
	sid := id.NewSovereignID()
	var out *models.Sovereign
	err := s.atomic(ctx, "sovereign.create", pstore.LockKey, sid, func(o *op) error {
		if err := o.requireNotPaused(); err != nil {
			return err
		}
		if err := p.Validate(o.cfg.MinBondTarget); err != nil {
			return err
		}
		if p.TokenRef != "" && p.TokenRef == o.cfg.CurrencyToken {
			return dErrors.New(dErrors.CodeValidation, "token must differ from the base currency")
		}
		charge, err := o.cfg.CreationCharge(p.Target)
		if err != nil {
			return err
		}
		sov, err := models.NewSovereign(sid, p, charge, o.cfg.MinFee, o.now)
		if err != nil {
			return err
		}
		o.sov = sov
		vault := sov.Vault()

		if p.LaunchKind == models.LaunchExistingToken {
			if err := o.checkBringYourOwn(p); err != nil {
				return err
			}
			if err := o.transfer(p.TokenRef, p.Creator, vault, p.TokenDeposit); err != nil {
				return err
			}
			sov.TokenSupplied = p.TokenDeposit
		}
		if err := o.pay(p.Creator, vault, charge); err != nil {
			return err
		}
		if p.LaunchKind == models.LaunchNewToken {
			ref, err := o.createToken(vault, p.TokenSupply)
			if err != nil {
				return err
			}
			sov.TokenRef = ref
			sov.TokenSupplied = p.TokenSupply
		}

		if err := store.SaveSovereign(o.ctx, o.txn, sov); err != nil {
			return err
		}
		if err := store.SaveEscrow(o.ctx, o.txn, models.NewCreatorEscrow(sid, o.now)); err != nil {
			return err
		}
		if err := o.cfg.RecordCreation(charge); err != nil {
			return err
		}
		if err := pstore.Save(o.ctx, o.txn, o.cfg); err != nil {
			return err
		}
		o.emit(audit.EventSovereignCreated, p.Creator, map[string]uint64{
			"target":          p.Target,
			"creation_charge": charge,
			"token_supplied":  sov.TokenSupplied,
		})
		out = sov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkBringYourOwn requires the deposited share of an existing token's
// supply to meet the protocol minimum.
func (o *op) checkBringYourOwn(p models.CreateParams) error {
	supply, err := o.totalSupply(p.TokenRef)
	if err != nil {
		return err
	}
	if p.TokenDeposit > supply {
		return dErrors.Newf(dErrors.CodeValidation, "token deposit %d exceeds total supply %d", p.TokenDeposit, supply)
	}
	share, err := bps.ShareOf(p.TokenDeposit, supply)
	if err != nil {
		return err
	}
	if share < o.cfg.BYOMinSupplyBps {
		return dErrors.Newf(dErrors.CodeValidation,
			"token deposit is %d bps of supply, minimum is %d bps", share, o.cfg.BYOMinSupplyBps)
	}
	return nil
}

// Finalize moves a funded sovereign from Bonding to Recovery: it pays the
// creation charge to the treasury, opens the restricted position, mints
// certificates, and spends the creator escrow in the same step.
func (s *Service) Finalize(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.execute(ctx, "sovereign.finalize", sid, func(o *op) error {
		if err := o.requireNotPaused(); err != nil {
			return err
		}
		if err := o.sov.Require(models.OpFinalize); err != nil {
			return err
		}
		if err := o.sov.BeginFinalize(o.now); err != nil {
			return err
		}
		records, err := store.ListDeposits(o.ctx, o.txn, o.sov.ID)
		if err != nil {
			return err
		}
		if err := models.AssignShares(records, o.sov.TotalRaised); err != nil {
			return err
		}
		escrow, err := o.loadEscrow()
		if err != nil {
			return err
		}

		vault := o.sov.Vault()
		if err := o.pay(vault, o.cfg.Treasury, o.sov.CreationCharge); err != nil {
			return err
		}
		o.flow("treasury", o.sov.CreationCharge)

		if o.sov.LaunchKind == models.LaunchNewToken && o.sov.SellFeeBps > 0 {
			if err := o.setTransferFee(o.sov.SellFeeBps, 0); err != nil {
				return err
			}
		}
		ref, err := o.openPosition(o.sov.TotalRaised, o.sov.TokenSupplied)
		if err != nil {
			return err
		}
		o.sov.PositionRef = ref
		if err := o.setRestricted(true); err != nil {
			return err
		}

		for _, rec := range records {
			certRef, err := o.mintCertificate(rec.Depositor, ports.CertificateMetadata{
				SovereignID: o.sov.ID,
				Depositor:   rec.Depositor,
				Amount:      rec.Amount,
				ShareBps:    uint16(rec.ShareBps),
			})
			if err != nil {
				return err
			}
			rec.CertificateRef = certRef
			rec.UpdatedAt = o.now
			if err := store.SaveDeposit(o.ctx, o.txn, rec); err != nil {
				return err
			}
		}

		positionCurrency, positionTokens := o.sov.TotalRaised, o.sov.TokenSupplied
		if escrow.Amount > 0 {
			purchased, err := o.buyWithEscrow(escrow.Amount)
			if err != nil {
				return err
			}
			escrow.RecordPurchase(purchased, o.now)
			positionCurrency += escrow.Amount
			positionTokens -= purchased
		}

		if err := o.sov.CompleteFinalize(ref, positionCurrency, positionTokens, o.now); err != nil {
			return err
		}
		o.emit(audit.EventSovereignFinalized, caller, map[string]uint64{
			"total_raised":     o.sov.TotalRaised,
			"depositors":       uint64(len(records)),
			"creation_charge":  o.sov.CreationCharge,
			"purchased_tokens": escrow.PurchasedTokens,
		})
		return nil
	})
}

// buyWithEscrow swaps the creator escrow against the new position, bounded
// by the spot price its own reserves imply.
func (o *op) buyWithEscrow(amount uint64) (uint64, error) {
	spot, err := bps.MulDiv(amount, o.sov.TokenSupplied, o.sov.TotalRaised)
	if err != nil {
		return 0, err
	}
	minOut, err := bps.Complement(spot, models.MaxSlippageBps)
	if err != nil {
		return 0, err
	}
	return o.swap(amount, minOut)
}

// MarkFailed closes an unfunded sovereign after its deadline and sends the
// non-refundable part of the creation charge to the treasury.
func (s *Service) MarkFailed(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.execute(ctx, "sovereign.mark_failed", sid, func(o *op) error {
		if err := o.sov.MarkFailed(o.now); err != nil {
			return err
		}
		if err := o.pay(o.sov.Vault(), o.cfg.Treasury, o.sov.NonRefundableFee); err != nil {
			return err
		}
		o.flow("treasury", o.sov.NonRefundableFee)
		o.emit(audit.EventSovereignFailed, caller, map[string]uint64{
			"total_raised":       o.sov.TotalRaised,
			"non_refundable_fee": o.sov.NonRefundableFee,
		})
		return nil
	})
}

// Refund returns an investor's exact deposit from a failed sovereign, once.
func (s *Service) Refund(ctx context.Context, sid id.SovereignID, depositor id.ParticipantID) (*models.DepositRecord, error) {
	var out *models.DepositRecord
	_, err := s.execute(ctx, "sovereign.refund", sid, func(o *op) error {
		if err := o.sov.Require(models.OpRefund); err != nil {
			return err
		}
		rec, err := store.GetDeposit(o.ctx, o.txn, o.sov.ID, depositor)
		if err != nil {
			return err
		}
		if rec.RefundClaimed {
			return dErrors.New(dErrors.CodeState, "deposit already refunded")
		}
		rec.RefundClaimed = true
		rec.UpdatedAt = o.now
		if err := o.pay(o.sov.Vault(), depositor, rec.Amount); err != nil {
			return err
		}
		if err := store.SaveDeposit(o.ctx, o.txn, rec); err != nil {
			return err
		}
		o.flow("refund", rec.Amount)
		o.emit(audit.EventInvestorRefunded, depositor, map[string]uint64{"amount": rec.Amount})
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FailedWithdrawal is what the creator recovered from a failed sovereign.
type FailedWithdrawal struct {
	Escrow         uint64 `json:"escrow"`
	CreationCharge uint64 `json:"creation_charge"`
	Tokens         uint64 `json:"tokens"`
}

// CreatorWithdrawFailed returns the escrow, the refundable creation charge
// and every vault token to the creator of a failed sovereign, once.
func (s *Service) CreatorWithdrawFailed(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*FailedWithdrawal, error) {
	var out FailedWithdrawal
	_, err := s.execute(ctx, "sovereign.creator_withdraw_failed", sid, func(o *op) error {
		if err := o.sov.Require(models.OpCreatorWithdrawFailed); err != nil {
			return err
		}
		if err := o.sov.RequireCreator(caller); err != nil {
			return err
		}
		escrow, err := o.loadEscrow()
		if err != nil {
			return err
		}
		amount, err := escrow.TakeFailedRefund(o.now)
		if err != nil {
			return err
		}
		vault := o.sov.Vault()
		tokens, err := o.balanceOf(o.sov.TokenRef, vault)
		if err != nil {
			return err
		}
		out = FailedWithdrawal{
			Escrow:         amount,
			CreationCharge: o.sov.RefundableCreationCharge(),
			Tokens:         tokens,
		}
		if err := o.pay(vault, caller, out.Escrow+out.CreationCharge); err != nil {
			return err
		}
		if err := o.transfer(o.sov.TokenRef, vault, caller, tokens); err != nil {
			return err
		}
		o.flow("refund", out.Escrow+out.CreationCharge)
		o.emit(audit.EventCreatorFailedWithdrawal, caller, map[string]uint64{
			"escrow":          out.Escrow,
			"creation_charge": out.CreationCharge,
			"tokens":          out.Tokens,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
