package models

import (
	"time"

	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

const day = 24 * time.Hour

const (
	MinBondDuration  = 7 * day
	MaxBondDuration  = 30 * day
	VotingPeriod     = 7 * day
	TimelockPeriod   = 2 * day
	ActivityCooldown = 7 * day
)

const (
	MaxSellFeeBps    bps.Rate = 300
	CreatorMaxBuyBps bps.Rate = 100
	MaxSlippageBps   bps.Rate = 100
	QuorumBps        bps.Rate = 6700
	PassThresholdBps bps.Rate = 5100
)

// Sovereign is the aggregate root of one fundraising-and-liquidity instance.
//
// Invariants:
//   - TotalRaised <= Target, and RecoveryTarget == TotalRaised once bonding ends
//   - the creator escrow never exceeds EscrowCap (1% of Target)
//   - TotalCurrencyFeesDistributed never decreases
//   - RecoveryComplete goes false -> true once and never back
//   - State only moves along the edges in transitions
//   - Finalizing is never persisted
type Sovereign struct {
	ID         id.SovereignID   `json:"id"`
	Creator    id.ParticipantID `json:"creator"`
	TokenRef   string           `json:"token_ref"`
	LaunchKind LaunchKind       `json:"launch_kind"`
	FeeMode    FeeMode          `json:"fee_mode"`

	Target         uint64    `json:"target"`
	Deadline       time.Time `json:"deadline"`
	TotalRaised    uint64    `json:"total_raised"`
	DepositorCount uint64    `json:"depositor_count"`
	EscrowCap      uint64    `json:"escrow_cap"`
	TokenSupplied  uint64    `json:"token_supplied"`

	// CreationCharge sits in the vault until finalize or failure.
	CreationCharge   uint64 `json:"creation_charge"`
	NonRefundableFee uint64 `json:"non_refundable_fee"`

	SellFeeBps            bps.Rate `json:"sell_fee_bps"`
	SellFeeRenounced      bool     `json:"sell_fee_renounced"`
	FeeThresholdBps       bps.Rate `json:"fee_threshold_bps"`
	FeeThresholdRenounced bool     `json:"fee_threshold_renounced"`

	RecoveryTarget               uint64 `json:"recovery_target"`
	TotalCurrencyFeesCollected   uint64 `json:"total_currency_fees_collected"`
	TotalCurrencyFeesDistributed uint64 `json:"total_currency_fees_distributed"`
	TotalTokenFeesCollected      uint64 `json:"total_token_fees_collected"`
	TotalTransferFeesHarvested   uint64 `json:"total_transfer_fees_harvested"`
	// Running per-share indexes: a record's entitlement is index*share/10000.
	CumulativeInvestorCurrency uint64 `json:"cumulative_investor_currency"`
	CumulativeInvestorTokens   uint64 `json:"cumulative_investor_tokens"`
	RecoveryComplete           bool   `json:"recovery_complete"`

	PositionRef      string `json:"position_ref,omitempty"`
	PositionCurrency uint64 `json:"position_currency"`
	PositionTokens   uint64 `json:"position_tokens"`
	PoolRestricted   bool   `json:"pool_restricted"`

	ActivityCheck ActivityCheck `json:"activity_check"`

	ActiveProposal    id.ProposalID `json:"active_proposal,omitempty"`
	HasActiveProposal bool          `json:"has_active_proposal"`
	ProposalCount     uint64        `json:"proposal_count"`
	LastActivityAt    time.Time     `json:"last_activity_at"`

	Unwind *UnwindProceeds `json:"unwind,omitempty"`

	State       State     `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	FinalizedAt time.Time `json:"finalized_at"`
}

// UnwindProceeds is what the closed position returned, split for claims.
// The fee and surplus stay in the vault as TreasuryOwed until settled.
type UnwindProceeds struct {
	Currency         uint64    `json:"currency"`
	Tokens           uint64    `json:"tokens"`
	Fee              uint64    `json:"fee"`
	InvestorPool     uint64    `json:"investor_pool"`
	Surplus          uint64    `json:"surplus"`
	CreatorTokenPool uint64    `json:"creator_token_pool"`
	InvestorClaimed  uint64    `json:"investor_claimed"`
	TreasuryOwed     uint64    `json:"treasury_owed"`
	TreasuryPaid     uint64    `json:"treasury_paid"`
	Trigger          string    `json:"trigger"`
	At               time.Time `json:"at"`
}

// CreateParams describes a new sovereign as requested by its creator.
type CreateParams struct {
	Creator      id.ParticipantID
	LaunchKind   LaunchKind
	TokenSupply  uint64 // new_token: minted into the vault
	TokenRef     string // existing_token
	TokenDeposit uint64 // existing_token: moved creator -> vault
	Target       uint64
	BondDuration time.Duration
	SellFeeBps   bps.Rate
	FeeMode      FeeMode
	// FeeThresholdBps is the creator's share of Active-phase fees in creator_revenue mode.
	FeeThresholdBps bps.Rate
}

// Validate checks everything that does not need the token service.
func (p CreateParams) Validate(minBondTarget uint64) error {
	if p.Creator.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "creator is required")
	}
	if p.Target < minBondTarget {
		return dErrors.Newf(dErrors.CodeValidation, "target %d below minimum %d", p.Target, minBondTarget)
	}
	if p.BondDuration < MinBondDuration || p.BondDuration > MaxBondDuration {
		return dErrors.Newf(dErrors.CodeValidation,
			"bond duration must be between %d and %d days", MinBondDuration/day, MaxBondDuration/day)
	}
	if !p.FeeMode.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown fee mode %q", p.FeeMode)
	}
	if err := p.FeeThresholdBps.ValidateMax("fee threshold", bps.Rate(bps.Denominator)); err != nil {
		return err
	}
	switch p.LaunchKind {
	case LaunchNewToken:
		if p.TokenSupply == 0 {
			return dErrors.New(dErrors.CodeValidation, "token supply is required")
		}
		if p.TokenRef != "" || p.TokenDeposit != 0 {
			return dErrors.New(dErrors.CodeValidation, "new_token launches mint their own token")
		}
		return p.SellFeeBps.ValidateMax("sell fee", MaxSellFeeBps)
	case LaunchExistingToken:
		if p.TokenRef == "" || p.TokenDeposit == 0 {
			return dErrors.New(dErrors.CodeValidation, "token ref and deposit are required")
		}
		if p.SellFeeBps != 0 {
			return dErrors.New(dErrors.CodeValidation, "sell fee applies to new_token launches only")
		}
		return nil
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown launch kind %q", p.LaunchKind)
	}
}

// NewSovereign builds a Bonding sovereign. The token ref and supplied amount
// are filled in once the token exists.
func NewSovereign(sid id.SovereignID, p CreateParams, charge, minFee uint64, now time.Time) (*Sovereign, error) {
	escrowCap, err := bps.Apply(p.Target, CreatorMaxBuyBps)
	if err != nil {
		return nil, err
	}
	return &Sovereign{
		ID:               sid,
		Creator:          p.Creator,
		TokenRef:         p.TokenRef,
		LaunchKind:       p.LaunchKind,
		FeeMode:          p.FeeMode,
		Target:           p.Target,
		Deadline:         now.Add(p.BondDuration),
		EscrowCap:        escrowCap,
		CreationCharge:   charge,
		NonRefundableFee: min(minFee, charge),
		SellFeeBps:       p.SellFeeBps,
		FeeThresholdBps:  p.FeeThresholdBps,
		State:            StateBonding,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Vault is the account holding this sovereign's funds.
func (s *Sovereign) Vault() id.ParticipantID { return id.VaultAccount(s.ID) }

func (s *Sovereign) Require(op Operation) error { return s.State.Require(op) }

func (s *Sovereign) IsCreator(p id.ParticipantID) bool { return p == s.Creator }

// RequireCreator rejects anyone but the creator.
func (s *Sovereign) RequireCreator(caller id.ParticipantID) error {
	if !s.IsCreator(caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the sovereign creator")
	}
	return nil
}

// DeadlinePassed is true from the deadline instant onwards.
func (s *Sovereign) DeadlinePassed(now time.Time) bool {
	return !now.Before(s.Deadline)
}

// RemainingGap is how much more the sovereign can raise.
func (s *Sovereign) RemainingGap() uint64 {
	return bps.SaturatingSub(s.Target, s.TotalRaised)
}

func (s *Sovereign) TargetMet() bool { return s.TotalRaised >= s.Target }

func (s *Sovereign) transition(next State, now time.Time) error {
	if !s.State.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "illegal transition %s -> %s", s.State, next)
	}
	s.State = next
	s.UpdatedAt = now
	return nil
}

// AddRaised credits an accepted investor deposit.
func (s *Sovereign) AddRaised(amount uint64, newDepositor bool, now time.Time) error {
	total, err := bps.Add(s.TotalRaised, amount)
	if err != nil {
		return err
	}
	if total > s.Target {
		return dErrors.New(dErrors.CodeInvariantViolation, "deposit would exceed target")
	}
	s.TotalRaised = total
	s.RecoveryTarget = total
	if newDepositor {
		s.DepositorCount++
	}
	s.UpdatedAt = now
	return nil
}

// SubRaised debits a withdrawal during bonding.
func (s *Sovereign) SubRaised(amount uint64, closedRecord bool, now time.Time) error {
	total, err := bps.Sub(s.TotalRaised, amount)
	if err != nil {
		return err
	}
	s.TotalRaised = total
	s.RecoveryTarget = total
	if closedRecord {
		s.DepositorCount = bps.SaturatingSub(s.DepositorCount, 1)
	}
	s.UpdatedAt = now
	return nil
}

// BeginFinalize moves Bonding -> Finalizing once the target is met.
func (s *Sovereign) BeginFinalize(now time.Time) error {
	if !s.TargetMet() {
		return dErrors.Newf(dErrors.CodeState, "target not met: raised %d of %d", s.TotalRaised, s.Target)
	}
	return s.transition(StateFinalizing, now)
}

// CompleteFinalize records the opened position and enters Recovery.
func (s *Sovereign) CompleteFinalize(positionRef string, currency, tokens uint64, now time.Time) error {
	s.PositionRef = positionRef
	s.PositionCurrency = currency
	s.PositionTokens = tokens
	s.PoolRestricted = true
	s.RecoveryTarget = s.TotalRaised
	s.LastActivityAt = now
	s.FinalizedAt = now
	return s.transition(StateRecovery, now)
}

// MarkFailed moves Bonding -> Failed after the deadline with the target unmet.
func (s *Sovereign) MarkFailed(now time.Time) error {
	if err := s.Require(OpMarkFailed); err != nil {
		return err
	}
	if !s.DeadlinePassed(now) {
		return dErrors.Newf(dErrors.CodeTiming, "bonding deadline %s has not passed", s.Deadline.Format(time.RFC3339))
	}
	if s.TargetMet() {
		return dErrors.New(dErrors.CodeState, "target met; finalize instead")
	}
	return s.transition(StateFailed, now)
}

// RefundableCreationCharge is what the creator gets back on failure.
func (s *Sovereign) RefundableCreationCharge() uint64 {
	return bps.SaturatingSub(s.CreationCharge, s.NonRefundableFee)
}

// UpdateFeeThreshold lowers the creator's Active-phase fee share.
func (s *Sovereign) UpdateFeeThreshold(v bps.Rate, now time.Time) error {
	if s.FeeThresholdRenounced {
		return dErrors.New(dErrors.CodeState, "fee threshold has been renounced")
	}
	if v > s.FeeThresholdBps {
		return dErrors.Newf(dErrors.CodeValidation, "fee threshold can only decrease (current %d bps)", s.FeeThresholdBps)
	}
	s.FeeThresholdBps = v
	s.UpdatedAt = now
	return nil
}

func (s *Sovereign) RenounceFeeThreshold(now time.Time) error {
	if s.FeeThresholdRenounced {
		return dErrors.New(dErrors.CodeState, "fee threshold already renounced")
	}
	s.FeeThresholdBps = 0
	s.FeeThresholdRenounced = true
	s.UpdatedAt = now
	return nil
}

func (s *Sovereign) requireSellFeeControl() error {
	if s.LaunchKind != LaunchNewToken {
		return dErrors.New(dErrors.CodeValidation, "sell fee applies to new_token launches only")
	}
	if s.SellFeeRenounced {
		return dErrors.New(dErrors.CodeState, "sell fee has been renounced")
	}
	return nil
}

// UpdateSellFee lowers the token sell fee.
func (s *Sovereign) UpdateSellFee(v bps.Rate, now time.Time) error {
	if err := s.requireSellFeeControl(); err != nil {
		return err
	}
	if err := v.ValidateMax("sell fee", MaxSellFeeBps); err != nil {
		return err
	}
	if v > s.SellFeeBps {
		return dErrors.Newf(dErrors.CodeValidation, "sell fee can only decrease (current %d bps)", s.SellFeeBps)
	}
	s.SellFeeBps = v
	s.UpdatedAt = now
	return nil
}

// RenounceSellFee zeroes the sell fee for good. Outside fair_launch it waits
// until the sovereign is Active.
func (s *Sovereign) RenounceSellFee(now time.Time) error {
	if err := s.requireSellFeeControl(); err != nil {
		return err
	}
	if s.FeeMode != FeeModeFairLaunch && s.State != StateActive {
		return dErrors.Newf(dErrors.CodeState, "sell fee can be renounced once active (sovereign is %s)", s.State)
	}
	s.SellFeeBps = 0
	s.SellFeeRenounced = true
	s.UpdatedAt = now
	return nil
}

// LiftRestriction clears the restricted flag after a successful venue call.
func (s *Sovereign) LiftRestriction(now time.Time) error {
	if !s.PoolRestricted {
		return dErrors.New(dErrors.CodeState, "pool is not restricted")
	}
	s.PoolRestricted = false
	s.UpdatedAt = now
	return nil
}
