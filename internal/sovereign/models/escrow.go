package models

import (
	"time"

	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

// CreatorEscrow tracks the creator's optional currency escrow, the tokens it
// bought at finalize, and everything else owed to the creator.
//
// Invariants:
//   - Amount <= the sovereign's EscrowCap
//   - the purchased tokens leave the vault through exactly one of
//     ClaimPurchased or ClaimUnwind
type CreatorEscrow struct {
	SovereignID id.SovereignID `json:"sovereign_id"`
	Amount      uint64         `json:"amount"`

	PurchasedTokens  uint64 `json:"purchased_tokens"`
	TokensLocked     bool   `json:"tokens_locked"`
	PurchasedClaimed bool   `json:"purchased_claimed"`
	UnwindClaimed    bool   `json:"unwind_claimed"`

	CreatorFeesAccrued      uint64 `json:"creator_fees_accrued"`
	CreatorFeesClaimed      uint64 `json:"creator_fees_claimed"`
	CreatorTokenFeesAccrued uint64 `json:"creator_token_fees_accrued"`
	CreatorTokenFeesClaimed uint64 `json:"creator_token_fees_claimed"`
	// Sell tax is harvested token transfer fees routed to the creator.
	SellTaxAccrued uint64 `json:"sell_tax_accrued"`
	SellTaxClaimed uint64 `json:"sell_tax_claimed"`

	FailedWithdrawn bool      `json:"failed_withdrawn"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewCreatorEscrow(sid id.SovereignID, now time.Time) *CreatorEscrow {
	return &CreatorEscrow{SovereignID: sid, UpdatedAt: now}
}

// Accept adds up to amount to the escrow without crossing escrowCap and
// returns what was taken.
func (e *CreatorEscrow) Accept(amount, escrowCap uint64, now time.Time) (uint64, error) {
	room := bps.SaturatingSub(escrowCap, e.Amount)
	if room == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "creator escrow is full")
	}
	accepted := min(amount, room)
	e.Amount += accepted
	e.UpdatedAt = now
	return accepted, nil
}

// RecordPurchase locks the tokens bought with the escrow at finalize.
func (e *CreatorEscrow) RecordPurchase(tokens uint64, now time.Time) {
	e.PurchasedTokens = tokens
	e.TokensLocked = tokens > 0
	e.UpdatedAt = now
}

func (e *CreatorEscrow) Unlock(now time.Time) {
	e.TokensLocked = false
	e.UpdatedAt = now
}

// ClaimPurchased pays out the purchased tokens on the post-recovery path.
func (e *CreatorEscrow) ClaimPurchased(now time.Time) (uint64, error) {
	if e.PurchasedTokens == 0 {
		return 0, dErrors.New(dErrors.CodeState, "no purchased tokens")
	}
	if e.PurchasedClaimed {
		return 0, dErrors.New(dErrors.CodeState, "purchased tokens already claimed")
	}
	if e.TokensLocked {
		return 0, dErrors.New(dErrors.CodeState, "purchased tokens are locked until recovery completes")
	}
	e.PurchasedClaimed = true
	e.UpdatedAt = now
	return e.PurchasedTokens, nil
}

// ClaimUnwind pays the creator's token pool plus the purchased tokens when
// they were not already claimed.
func (e *CreatorEscrow) ClaimUnwind(tokenPool uint64, now time.Time) (uint64, error) {
	if e.UnwindClaimed {
		return 0, dErrors.New(dErrors.CodeState, "creator unwind already claimed")
	}
	payout := tokenPool
	if !e.PurchasedClaimed && e.PurchasedTokens > 0 {
		var err error
		if payout, err = bps.Add(payout, e.PurchasedTokens); err != nil {
			return 0, err
		}
		e.PurchasedClaimed = true
	}
	e.UnwindClaimed = true
	e.TokensLocked = false
	e.UpdatedAt = now
	return payout, nil
}

// Accrue credits the creator's Active-phase share of position fees.
func (e *CreatorEscrow) Accrue(currency, tokens uint64, now time.Time) error {
	c, err := bps.Add(e.CreatorFeesAccrued, currency)
	if err != nil {
		return err
	}
	t, err := bps.Add(e.CreatorTokenFeesAccrued, tokens)
	if err != nil {
		return err
	}
	e.CreatorFeesAccrued, e.CreatorTokenFeesAccrued = c, t
	e.UpdatedAt = now
	return nil
}

// AccrueSellTax credits harvested transfer fees to the creator.
func (e *CreatorEscrow) AccrueSellTax(tokens uint64, now time.Time) error {
	t, err := bps.Add(e.SellTaxAccrued, tokens)
	if err != nil {
		return err
	}
	e.SellTaxAccrued = t
	e.UpdatedAt = now
	return nil
}

// TakeCreatorFees marks every accrued position fee as paid and returns it.
func (e *CreatorEscrow) TakeCreatorFees(now time.Time) (currency, tokens uint64, err error) {
	if currency, err = bps.Sub(e.CreatorFeesAccrued, e.CreatorFeesClaimed); err != nil {
		return 0, 0, err
	}
	if tokens, err = bps.Sub(e.CreatorTokenFeesAccrued, e.CreatorTokenFeesClaimed); err != nil {
		return 0, 0, err
	}
	if currency == 0 && tokens == 0 {
		return 0, 0, dErrors.New(dErrors.CodeValidation, "no creator fees to withdraw")
	}
	e.CreatorFeesClaimed = e.CreatorFeesAccrued
	e.CreatorTokenFeesClaimed = e.CreatorTokenFeesAccrued
	e.UpdatedAt = now
	return currency, tokens, nil
}

// Outstanding is everything the vault still holds for the creator.
func (e *CreatorEscrow) Outstanding() (currency, tokens uint64) {
	currency = bps.SaturatingSub(e.CreatorFeesAccrued, e.CreatorFeesClaimed)
	tokens = bps.SaturatingSub(e.CreatorTokenFeesAccrued, e.CreatorTokenFeesClaimed) +
		bps.SaturatingSub(e.SellTaxAccrued, e.SellTaxClaimed)
	if !e.PurchasedClaimed {
		tokens += e.PurchasedTokens
	}
	return currency, tokens
}

// TakeSellTax marks every accrued transfer fee as paid and returns it.
func (e *CreatorEscrow) TakeSellTax(now time.Time) (uint64, error) {
	owed, err := bps.Sub(e.SellTaxAccrued, e.SellTaxClaimed)
	if err != nil {
		return 0, err
	}
	if owed == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "no sell tax to claim")
	}
	e.SellTaxClaimed = e.SellTaxAccrued
	e.UpdatedAt = now
	return owed, nil
}

// TakeFailedRefund returns the escrow to the creator once, after failure.
func (e *CreatorEscrow) TakeFailedRefund(now time.Time) (uint64, error) {
	if e.FailedWithdrawn {
		return 0, dErrors.New(dErrors.CodeState, "creator already withdrew from failed sovereign")
	}
	e.FailedWithdrawn = true
	e.UpdatedAt = now
	return e.Amount, nil
}
