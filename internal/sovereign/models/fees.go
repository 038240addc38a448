package models

import (
	"time"

	"sovereign/pkg/bps"
	dErrors "sovereign/pkg/domain-errors"
)

// FeeSplit is one fee collection divided between investors and the creator.
type FeeSplit struct {
	Currency         uint64 `json:"currency"`
	Tokens           uint64 `json:"tokens"`
	InvestorCurrency uint64 `json:"investor_currency"`
	InvestorTokens   uint64 `json:"investor_tokens"`
	CreatorCurrency  uint64 `json:"creator_currency"`
	CreatorTokens    uint64 `json:"creator_tokens"`
}

// SplitFees divides collected fees. Recovery pays investors everything; in
// Active, creator_revenue routes FeeThresholdBps of each side to the creator.
func (s *Sovereign) SplitFees(currency, tokens uint64) (FeeSplit, error) {
	split := FeeSplit{
		Currency:         currency,
		Tokens:           tokens,
		InvestorCurrency: currency,
		InvestorTokens:   tokens,
	}
	if s.State != StateActive || s.FeeMode != FeeModeCreatorRevenue {
		return split, nil
	}
	var err error
	if split.CreatorCurrency, err = bps.Apply(currency, s.FeeThresholdBps); err != nil {
		return FeeSplit{}, err
	}
	if split.CreatorTokens, err = bps.Apply(tokens, s.FeeThresholdBps); err != nil {
		return FeeSplit{}, err
	}
	split.InvestorCurrency = currency - split.CreatorCurrency
	split.InvestorTokens = tokens - split.CreatorTokens
	return split, nil
}

// ApplyFees books a collection against the sovereign's totals and indexes.
// It does not touch recovery; call RecordFeeDistribution for that.
func (s *Sovereign) ApplyFees(split FeeSplit, now time.Time) error {
	collected, err := bps.Add(s.TotalCurrencyFeesCollected, split.Currency)
	if err != nil {
		return err
	}
	tokenCollected, err := bps.Add(s.TotalTokenFeesCollected, split.Tokens)
	if err != nil {
		return err
	}
	currencyIndex, err := bps.Add(s.CumulativeInvestorCurrency, split.InvestorCurrency)
	if err != nil {
		return err
	}
	tokenIndex, err := bps.Add(s.CumulativeInvestorTokens, split.InvestorTokens)
	if err != nil {
		return err
	}
	s.TotalCurrencyFeesCollected = collected
	s.TotalTokenFeesCollected = tokenCollected
	s.CumulativeInvestorCurrency = currencyIndex
	s.CumulativeInvestorTokens = tokenIndex
	if split.Currency > 0 {
		s.LastActivityAt = now
	}
	s.UpdatedAt = now
	return nil
}

// RecordFeeDistribution adds investor currency to the recovery total. It
// reports true exactly once: the call that completes recovery and moves the
// sovereign to Active. Token fees never count.
func (s *Sovereign) RecordFeeDistribution(investorCurrency uint64, now time.Time) (completed bool, err error) {
	total, err := bps.Add(s.TotalCurrencyFeesDistributed, investorCurrency)
	if err != nil {
		return false, err
	}
	s.TotalCurrencyFeesDistributed = total
	s.UpdatedAt = now
	if s.RecoveryComplete || s.State != StateRecovery || total < s.RecoveryTarget {
		return false, nil
	}
	s.RecoveryComplete = true
	return true, s.transition(StateActive, now)
}

// ComputeUnwind splits what the closed position returned. The investor pool
// never exceeds the principal raised; anything above it is protocol surplus.
func (s *Sovereign) ComputeUnwind(currency, tokens uint64, unwindFee bps.Rate, trigger string, now time.Time) (*UnwindProceeds, error) {
	fee, err := bps.Apply(currency, unwindFee)
	if err != nil {
		return nil, err
	}
	net, err := bps.Sub(currency, fee)
	if err != nil {
		return nil, err
	}
	pool := min(net, s.TotalRaised)
	return &UnwindProceeds{
		Currency:         currency,
		Tokens:           tokens,
		Fee:              fee,
		InvestorPool:     pool,
		Surplus:          net - pool,
		CreatorTokenPool: tokens,
		TreasuryOwed:     currency - pool,
		Trigger:          trigger,
		At:               now,
	}, nil
}

// CanUnwind reports whether the sovereign may still book unwind proceeds.
func (s *Sovereign) CanUnwind() error {
	if s.Unwind != nil {
		return dErrors.New(dErrors.CodeState, "sovereign already unwound")
	}
	if !s.State.CanTransitionTo(StateUnwound) {
		return dErrors.Newf(dErrors.CodeState, "cannot unwind while sovereign is %s", s.State)
	}
	return nil
}

// TreasuryDue is the unwind fee and surplus not yet paid to the treasury.
func (s *Sovereign) TreasuryDue() uint64 {
	if s.Unwind == nil {
		return 0
	}
	return bps.SaturatingSub(s.Unwind.TreasuryOwed, s.Unwind.TreasuryPaid)
}

// RecordTreasuryPayment books a payment against the treasury entitlement.
func (s *Sovereign) RecordTreasuryPayment(amount uint64, now time.Time) error {
	if amount == 0 || amount > s.TreasuryDue() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "treasury payment %d exceeds %d due", amount, s.TreasuryDue())
	}
	s.Unwind.TreasuryPaid += amount
	s.UpdatedAt = now
	return nil
}

// ApplyTransferFees books a harvest of withheld transfer fees. When toCreator
// is false the tokens join the investor token index.
func (s *Sovereign) ApplyTransferFees(tokens uint64, toCreator bool, now time.Time) error {
	total, err := bps.Add(s.TotalTransferFeesHarvested, tokens)
	if err != nil {
		return err
	}
	if !toCreator {
		index, err := bps.Add(s.CumulativeInvestorTokens, tokens)
		if err != nil {
			return err
		}
		s.CumulativeInvestorTokens = index
	}
	s.TotalTransferFeesHarvested = total
	s.UpdatedAt = now
	return nil
}

// TransferFeesToCreator reports whether harvested transfer fees belong to the
// creator. creator_revenue always pays the creator, recovery_boost only once
// Active, and fair_launch never does.
func (s *Sovereign) TransferFeesToCreator() bool {
	switch s.FeeMode {
	case FeeModeCreatorRevenue:
		return true
	case FeeModeRecoveryBoost:
		return s.State == StateActive
	}
	return false
}

// VaultLiabilities is what the vault owes out of fees already collected: the
// unwithdrawn investor fees of every record plus the creator's unclaimed
// balances. Currency and tokens in the vault beyond these came from the
// position.
func VaultLiabilities(s *Sovereign, escrow *CreatorEscrow, records []*DepositRecord) (currency, tokens uint64, err error) {
	var claimedCurrency, claimedTokens uint64
	for _, rec := range records {
		if claimedCurrency, err = bps.Add(claimedCurrency, rec.CurrencyFeesClaimed); err != nil {
			return 0, 0, err
		}
		if claimedTokens, err = bps.Add(claimedTokens, rec.TokenFeesClaimed); err != nil {
			return 0, 0, err
		}
	}
	currency = bps.SaturatingSub(s.CumulativeInvestorCurrency, claimedCurrency)
	tokens = bps.SaturatingSub(s.CumulativeInvestorTokens, claimedTokens)
	creatorCurrency, creatorTokens := escrow.Outstanding()
	if currency, err = bps.Add(currency, creatorCurrency); err != nil {
		return 0, 0, err
	}
	if tokens, err = bps.Add(tokens, creatorTokens); err != nil {
		return 0, 0, err
	}
	return currency, tokens, nil
}

// CompleteUnwind stores the proceeds and enters Unwound.
func (s *Sovereign) CompleteUnwind(p *UnwindProceeds, now time.Time) error {
	if s.Unwind != nil {
		return dErrors.New(dErrors.CodeState, "sovereign already unwound")
	}
	if err := s.transition(StateUnwound, now); err != nil {
		return err
	}
	s.Unwind = p
	s.PositionCurrency = 0
	s.PositionTokens = 0
	s.HasActiveProposal = false
	s.ActiveProposal = 0
	s.ActivityCheck.Reset(false, now)
	return nil
}

// RecordInvestorUnwindClaim tracks how much of the pool has gone out.
func (s *Sovereign) RecordInvestorUnwindClaim(amount uint64, now time.Time) error {
	if s.Unwind == nil {
		return dErrors.New(dErrors.CodeState, "sovereign has no unwind proceeds")
	}
	claimed, err := bps.Add(s.Unwind.InvestorClaimed, amount)
	if err != nil {
		return err
	}
	if claimed > s.Unwind.InvestorPool {
		return dErrors.New(dErrors.CodeInvariantViolation, "unwind claims exceed investor pool")
	}
	s.Unwind.InvestorClaimed = claimed
	s.UpdatedAt = now
	return nil
}
