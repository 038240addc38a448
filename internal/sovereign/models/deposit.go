package models

import (
	"sort"
	"time"

	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

// DepositRecord is one investor's position in one sovereign. The creator never
// owns one.
//
// Invariants:
//   - Amount > 0 while the record exists
//   - ShareBps and CertificateRef are written once, at finalize
//   - CurrencyFeesClaimed never exceeds the record's currency entitlement
type DepositRecord struct {
	SovereignID    id.SovereignID   `json:"sovereign_id"`
	Depositor      id.ParticipantID `json:"depositor"`
	Amount         uint64           `json:"amount"`
	ShareBps       bps.Rate         `json:"share_bps"`
	CertificateRef string           `json:"certificate_ref,omitempty"`

	CurrencyFeesClaimed uint64 `json:"currency_fees_claimed"`
	TokenFeesClaimed    uint64 `json:"token_fees_claimed"`
	UnwindClaimed       bool   `json:"unwind_claimed"`
	RefundClaimed       bool   `json:"refund_claimed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDepositRecord(sid id.SovereignID, depositor id.ParticipantID, now time.Time) *DepositRecord {
	return &DepositRecord{
		SovereignID: sid,
		Depositor:   depositor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *DepositRecord) IsNew() bool { return r.Amount == 0 }

func (r *DepositRecord) Credit(amount uint64, now time.Time) error {
	total, err := bps.Add(r.Amount, amount)
	if err != nil {
		return err
	}
	r.Amount = total
	r.UpdatedAt = now
	return nil
}

// Debit reduces the record; closed reports the record reached zero.
func (r *DepositRecord) Debit(amount uint64, now time.Time) (closed bool, err error) {
	if amount == 0 {
		return false, dErrors.New(dErrors.CodeValidation, "withdrawal amount must be positive")
	}
	if amount > r.Amount {
		return false, dErrors.Newf(dErrors.CodeValidation, "withdrawal %d exceeds deposit %d", amount, r.Amount)
	}
	r.Amount -= amount
	r.UpdatedAt = now
	return r.Amount == 0, nil
}

// Entitlement is floor(index*share/10000).
func (r *DepositRecord) Entitlement(index uint64) (uint64, error) {
	return bps.Apply(index, r.ShareBps)
}

// Claimable returns the currency and token fees owed but not yet paid.
func (r *DepositRecord) Claimable(s *Sovereign) (currency, tokens uint64, err error) {
	ec, err := r.Entitlement(s.CumulativeInvestorCurrency)
	if err != nil {
		return 0, 0, err
	}
	et, err := r.Entitlement(s.CumulativeInvestorTokens)
	if err != nil {
		return 0, 0, err
	}
	if currency, err = bps.Sub(ec, r.CurrencyFeesClaimed); err != nil {
		return 0, 0, err
	}
	if tokens, err = bps.Sub(et, r.TokenFeesClaimed); err != nil {
		return 0, 0, err
	}
	return currency, tokens, nil
}

// MarkFeesClaimed records a payout computed by Claimable.
func (r *DepositRecord) MarkFeesClaimed(currency, tokens uint64, now time.Time) error {
	c, err := bps.Add(r.CurrencyFeesClaimed, currency)
	if err != nil {
		return err
	}
	t, err := bps.Add(r.TokenFeesClaimed, tokens)
	if err != nil {
		return err
	}
	r.CurrencyFeesClaimed, r.TokenFeesClaimed = c, t
	r.UpdatedAt = now
	return nil
}

// UnwindPayout is min(floor(pool*share/10000), amount).
func (r *DepositRecord) UnwindPayout(pool uint64) (uint64, error) {
	v, err := bps.Apply(pool, r.ShareBps)
	if err != nil {
		return 0, err
	}
	return min(v, r.Amount), nil
}

// AssignShares fixes every record's share at floor(amount*10000/total) and
// hands the rounding remainder to the largest deposit, ties going to the
// lexicographically smallest depositor, so the shares sum to exactly 10000.
func AssignShares(records []*DepositRecord, totalRaised uint64) error {
	if len(records) == 0 {
		return dErrors.New(dErrors.CodeState, "no deposits to assign shares to")
	}
	var sum uint64
	for _, r := range records {
		var err error
		if sum, err = bps.Add(sum, r.Amount); err != nil {
			return err
		}
	}
	if sum != totalRaised {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "deposits sum to %d but total raised is %d", sum, totalRaised)
	}

	var assigned uint64
	for _, r := range records {
		share, err := bps.ShareOf(r.Amount, totalRaised)
		if err != nil {
			return err
		}
		r.ShareBps = share
		assigned += uint64(share)
	}

	ordered := make([]*DepositRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Amount != ordered[j].Amount {
			return ordered[i].Amount > ordered[j].Amount
		}
		return ordered[i].Depositor < ordered[j].Depositor
	})
	ordered[0].ShareBps += bps.Rate(bps.Denominator - assigned)
	return nil
}
