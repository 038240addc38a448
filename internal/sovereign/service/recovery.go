package service

import (
	"context"

	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/store"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

// Harvest reports one fee collection.
type Harvest struct {
	Sovereign         *models.Sovereign `json:"sovereign"`
	Split             models.FeeSplit   `json:"split"`
	RecoveryCompleted bool              `json:"recovery_completed"`
}

// ClaimFees collects the position's fees into the vault, credits the
// investor indexes and the creator's share, and completes recovery when the
// distributed currency reaches the target. Everything the booking needs is
// loaded before the collection, which cannot be undone.
func (s *Service) ClaimFees(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*Harvest, error) {
	out := &Harvest{}
	sov, err := s.execute(ctx, "sovereign.claim_fees", sid, func(o *op) error {
		if err := o.requireNotPaused(); err != nil {
			return err
		}
		if err := o.sov.Require(models.OpClaimFees); err != nil {
			return err
		}
		escrow, err := o.loadEscrow()
		if err != nil {
			return err
		}
		var open *models.Proposal
		if o.sov.HasActiveProposal {
			if open, err = store.GetProposal(o.ctx, o.txn, o.sov.ID, o.sov.ActiveProposal); err != nil {
				return err
			}
		}
		currency, tokens, err := o.collectFees()
		if err != nil {
			return err
		}
		split, err := o.sov.SplitFees(currency, tokens)
		if err != nil {
			return err
		}
		if err := o.sov.ApplyFees(split, o.now); err != nil {
			return err
		}
		if split.CreatorCurrency > 0 || split.CreatorTokens > 0 {
			if err := escrow.Accrue(split.CreatorCurrency, split.CreatorTokens, o.now); err != nil {
				return err
			}
		}
		completed, err := o.sov.RecordFeeDistribution(split.InvestorCurrency, o.now)
		if err != nil {
			return err
		}
		o.flow("fees", currency)
		o.emit(audit.EventFeesClaimed, caller, map[string]uint64{
			"currency":          split.Currency,
			"tokens":            split.Tokens,
			"investor_currency": split.InvestorCurrency,
			"creator_currency":  split.CreatorCurrency,
			"distributed":       o.sov.TotalCurrencyFeesDistributed,
		})
		if completed {
			escrow.Unlock(o.now)
			o.emit(audit.EventRecoveryCompleted, caller, map[string]uint64{
				"recovery_target": o.sov.RecoveryTarget,
				"distributed":     o.sov.TotalCurrencyFeesDistributed,
			})
			if open != nil {
				if err := o.cancelProposal(open, caller); err != nil {
					return err
				}
			}
			o.liftRestriction(caller)
		}
		out.Split, out.RecoveryCompleted = split, completed
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Sovereign = sov
	return out, nil
}

// cancelProposal drops an undecided unwind proposal once recovery has made
// it moot.
func (o *op) cancelProposal(p *models.Proposal, caller id.ParticipantID) error {
	if err := p.Cancel(o.now); err != nil {
		return err
	}
	if err := store.SaveProposal(o.ctx, o.txn, p); err != nil {
		return err
	}
	o.sov.ClearProposal(o.now)
	o.emit(audit.EventProposalCancelled, caller, map[string]uint64{
		"proposal_id":   uint64(p.ID),
		"votes_for":     p.VotesFor,
		"votes_against": p.VotesAgainst,
	})
	return nil
}

// HarvestTransferFees sweeps the token's withheld transfer fees into the
// vault and routes them by fee mode: to the creator's sell tax or to the
// investors' token index.
func (s *Service) HarvestTransferFees(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.execute(ctx, "sovereign.harvest_transfer_fees", sid, func(o *op) error {
		if err := o.requireNotPaused(); err != nil {
			return err
		}
		if err := o.sov.Require(models.OpHarvestTransferFees); err != nil {
			return err
		}
		if o.sov.LaunchKind != models.LaunchNewToken {
			return dErrors.New(dErrors.CodeValidation, "transfer fees apply to new_token launches only")
		}
		escrow, err := o.loadEscrow()
		if err != nil {
			return err
		}
		tokens, err := o.harvestWithheld()
		if err != nil {
			return err
		}
		if tokens == 0 {
			return dErrors.New(dErrors.CodeValidation, "no transfer fees to harvest")
		}
		toCreator := o.sov.TransferFeesToCreator()
		if toCreator {
			if err := escrow.AccrueSellTax(tokens, o.now); err != nil {
				return err
			}
		}
		if err := o.sov.ApplyTransferFees(tokens, toCreator, o.now); err != nil {
			return err
		}
		o.emit(audit.EventTransferFeesHarvested, caller, map[string]uint64{
			"tokens":     tokens,
			"to_creator": boolAmount(toCreator),
		})
		return nil
	})
}

// liftRestriction opens the pool once recovery completes. A venue failure
// leaves PoolRestricted set for LiftPoolRestriction to retry and does not
// fail the operation.
func (o *op) liftRestriction(caller id.ParticipantID) {
	if err := o.setRestricted(false); err != nil {
		o.s.logger.WarnContext(o.ctx, "pool restriction not lifted; retry with lift_pool_restriction",
			"sovereign_id", o.sov.ID.String(),
			"error", err,
		)
		return
	}
	if err := o.sov.LiftRestriction(o.now); err != nil {
		return
	}
	o.emit(audit.EventPoolRestrictionLift, caller, nil)
}

// LiftPoolRestriction retries lifting the restriction on an Active sovereign.
func (s *Service) LiftPoolRestriction(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.execute(ctx, "sovereign.lift_pool_restriction", sid, func(o *op) error {
		if err := o.sov.Require(models.OpLiftPoolRestriction); err != nil {
			return err
		}
		if !o.sov.PoolRestricted {
			return dErrors.New(dErrors.CodeState, "pool is not restricted")
		}
		if err := o.setRestricted(false); err != nil {
			return err
		}
		if err := o.sov.LiftRestriction(o.now); err != nil {
			return err
		}
		o.emit(audit.EventPoolRestrictionLift, caller, nil)
		return nil
	})
}

// FeeWithdrawal is what a depositor was paid from accrued fees.
type FeeWithdrawal struct {
	Currency uint64 `json:"currency"`
	Tokens   uint64 `json:"tokens"`
}

// WithdrawDepositorFees pays the certificate holder the fees owed on a
// deposit record.
func (s *Service) WithdrawDepositorFees(ctx context.Context, sid id.SovereignID, depositor, caller id.ParticipantID) (*FeeWithdrawal, error) {
	var out FeeWithdrawal
	_, err := s.execute(ctx, "sovereign.withdraw_depositor_fees", sid, func(o *op) error {
		if err := o.sov.Require(models.OpWithdrawDepositorFees); err != nil {
			return err
		}
		rec, err := store.GetDeposit(o.ctx, o.txn, o.sov.ID, depositor)
		if err != nil {
			return err
		}
		if err := o.requireHolder(rec.CertificateRef, caller); err != nil {
			return err
		}
		currency, tokens, err := rec.Claimable(o.sov)
		if err != nil {
			return err
		}
		if currency == 0 && tokens == 0 {
			return dErrors.New(dErrors.CodeValidation, "no fees to withdraw")
		}
		if err := rec.MarkFeesClaimed(currency, tokens, o.now); err != nil {
			return err
		}
		if err := o.pay(o.sov.Vault(), caller, currency); err != nil {
			return err
		}
		if err := o.transfer(o.sov.TokenRef, o.sov.Vault(), caller, tokens); err != nil {
			return err
		}
		if err := store.SaveDeposit(o.ctx, o.txn, rec); err != nil {
			return err
		}
		out = FeeWithdrawal{Currency: currency, Tokens: tokens}
		o.emit(audit.EventInvestorFeesWithdrawn, caller, map[string]uint64{"currency": currency, "tokens": tokens})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// WithdrawCreatorFees pays the creator's accrued share of position fees.
func (s *Service) WithdrawCreatorFees(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*FeeWithdrawal, error) {
	var out FeeWithdrawal
	_, err := s.creatorPayout(ctx, "sovereign.withdraw_creator_fees", sid, caller, models.OpWithdrawCreatorFees,
		func(o *op, e *models.CreatorEscrow) (uint64, error) {
			currency, tokens, err := e.TakeCreatorFees(o.now)
			if err != nil {
				return 0, err
			}
			if err := o.pay(o.sov.Vault(), caller, currency); err != nil {
				return 0, err
			}
			if err := o.transfer(o.sov.TokenRef, o.sov.Vault(), caller, tokens); err != nil {
				return 0, err
			}
			out = FeeWithdrawal{Currency: currency, Tokens: tokens}
			o.emit(audit.EventCreatorFeesWithdrawn, caller, map[string]uint64{"currency": currency, "tokens": tokens})
			return currency, nil
		})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ClaimSellTax pays the creator the transfer fees harvested on its behalf.
func (s *Service) ClaimSellTax(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (uint64, error) {
	return s.creatorPayout(ctx, "sovereign.claim_sell_tax", sid, caller, models.OpClaimSellTax,
		func(o *op, e *models.CreatorEscrow) (uint64, error) {
			amount, err := e.TakeSellTax(o.now)
			if err != nil {
				return 0, err
			}
			if err := o.transfer(o.sov.TokenRef, o.sov.Vault(), caller, amount); err != nil {
				return 0, err
			}
			o.emit(audit.EventSellTaxClaimed, caller, map[string]uint64{"tokens": amount})
			return amount, nil
		})
}

// ClaimPurchasedTokens pays the escrow-purchased tokens once recovery has
// unlocked them. After an unwind they are paid with the creator's unwind
// claim instead, whichever comes first.
func (s *Service) ClaimPurchasedTokens(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (uint64, error) {
	return s.creatorPayout(ctx, "sovereign.claim_purchased_tokens", sid, caller, models.OpClaimPurchasedTokens,
		func(o *op, e *models.CreatorEscrow) (uint64, error) {
			amount, err := e.ClaimPurchased(o.now)
			if err != nil {
				return 0, err
			}
			if err := o.transfer(o.sov.TokenRef, o.sov.Vault(), caller, amount); err != nil {
				return 0, err
			}
			o.emit(audit.EventPurchasedTokensClaimed, caller, map[string]uint64{"tokens": amount})
			return amount, nil
		})
}

func (s *Service) creatorPayout(
	ctx context.Context,
	name string,
	sid id.SovereignID,
	caller id.ParticipantID,
	operation models.Operation,
	fn func(o *op, e *models.CreatorEscrow) (uint64, error),
) (uint64, error) {
	var amount uint64
	_, err := s.execute(ctx, name, sid, func(o *op) error {
		if err := o.sov.Require(operation); err != nil {
			return err
		}
		if err := o.sov.RequireCreator(caller); err != nil {
			return err
		}
		e, err := o.loadEscrow()
		if err != nil {
			return err
		}
		amount, err = fn(o, e)
		return err
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// UpdateFeeThreshold lowers the creator's Active-phase share of fees.
func (s *Service) UpdateFeeThreshold(ctx context.Context, sid id.SovereignID, caller id.ParticipantID, threshold bps.Rate) (*models.Sovereign, error) {
	return s.creatorControl(ctx, "sovereign.update_fee_threshold", sid, caller, models.OpUpdateFeeThreshold,
		audit.EventFeeThresholdUpdated, func(o *op) error {
			return o.sov.UpdateFeeThreshold(threshold, o.now)
		})
}

func (s *Service) RenounceFeeThreshold(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.creatorControl(ctx, "sovereign.renounce_fee_threshold", sid, caller, models.OpUpdateFeeThreshold,
		audit.EventFeeThresholdRenounced, func(o *op) error {
			return o.sov.RenounceFeeThreshold(o.now)
		})
}

// UpdateSellFee lowers the token sell fee of a new_token launch. Once the
// token exists the new rate is pushed to its transfer fee.
func (s *Service) UpdateSellFee(ctx context.Context, sid id.SovereignID, caller id.ParticipantID, fee bps.Rate) (*models.Sovereign, error) {
	return s.creatorControl(ctx, "sovereign.update_sell_fee", sid, caller, models.OpUpdateSellFee,
		audit.EventSellFeeUpdated, func(o *op) error {
			previous := o.sov.SellFeeBps
			if err := o.sov.UpdateSellFee(fee, o.now); err != nil {
				return err
			}
			return o.syncTransferFee(previous)
		})
}

func (s *Service) RenounceSellFee(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	return s.creatorControl(ctx, "sovereign.renounce_sell_fee", sid, caller, models.OpUpdateSellFee,
		audit.EventSellFeeRenounced, func(o *op) error {
			previous := o.sov.SellFeeBps
			if err := o.sov.RenounceSellFee(o.now); err != nil {
				return err
			}
			return o.syncTransferFee(previous)
		})
}

// syncTransferFee applies SellFeeBps to a token that already carries a
// transfer fee. During bonding the token has none; finalize sets it.
func (o *op) syncTransferFee(previous bps.Rate) error {
	if o.sov.State == models.StateBonding || previous == o.sov.SellFeeBps {
		return nil
	}
	return o.setTransferFee(o.sov.SellFeeBps, previous)
}

func (s *Service) creatorControl(
	ctx context.Context,
	name string,
	sid id.SovereignID,
	caller id.ParticipantID,
	operation models.Operation,
	event audit.EventType,
	fn func(o *op) error,
) (*models.Sovereign, error) {
	return s.execute(ctx, name, sid, func(o *op) error {
		if err := o.sov.Require(operation); err != nil {
			return err
		}
		if err := o.sov.RequireCreator(caller); err != nil {
			return err
		}
		if err := fn(o); err != nil {
			return err
		}
		o.emit(event, caller, map[string]uint64{
			"fee_threshold_bps": uint64(o.sov.FeeThresholdBps),
			"sell_fee_bps":      uint64(o.sov.SellFeeBps),
		})
		return nil
	})
}
