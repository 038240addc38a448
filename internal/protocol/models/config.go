package models

import (
	"time"

	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

const day = 24 * time.Hour

// Bounds enforced on every update.
const (
	MaxCreationFeeBps   bps.Rate = 1000
	MaxUnwindFeeBps     bps.Rate = 1000
	MinInactivityWindow          = 90 * day
	MaxInactivityWindow          = 365 * day
)

// Defaults applied by Initialize.
const (
	DefaultCreationFeeBps           bps.Rate = 50
	DefaultUnwindFeeBps             bps.Rate = 500
	DefaultBYOMinSupplyBps          bps.Rate = 3000
	DefaultMinFee                   uint64   = 50_000_000
	DefaultGovernanceFee            uint64   = 50_000_000
	DefaultMinBondTarget            uint64   = 50_000_000_000
	DefaultMinDeposit               uint64   = 100_000_000
	DefaultMinFeeGrowthThreshold    uint64   = 1000
	DefaultInactivityWindow                  = 90 * day
	DefaultProposalInactivityPeriod          = 7 * day
)

// Config is the protocol-wide singleton every sovereign reads.
//
// Invariants:
//   - every bps field is at most 10000, creation and unwind fees at most 1000
//   - MinFeeGrowthThreshold > 0, and immutable once ThresholdRenounced
//   - InactivityWindow within [MinInactivityWindow, MaxInactivityWindow]
//   - only Authority may change anything
type Config struct {
	Authority     id.ParticipantID `json:"authority"`
	Treasury      id.ParticipantID `json:"treasury"`
	CurrencyToken string           `json:"currency_token"`

	CreationFeeBps  bps.Rate `json:"creation_fee_bps"`
	MinFee          uint64   `json:"min_fee"`
	GovernanceFee   uint64   `json:"governance_fee"`
	UnwindFeeBps    bps.Rate `json:"unwind_fee_bps"`
	BYOMinSupplyBps bps.Rate `json:"byo_min_supply_bps"`
	MinBondTarget   uint64   `json:"min_bond_target"`
	MinDeposit      uint64   `json:"min_deposit"`

	InactivityWindow         time.Duration `json:"inactivity_window"`
	ProposalInactivityPeriod time.Duration `json:"proposal_inactivity_period"`
	MinFeeGrowthThreshold    uint64        `json:"min_fee_growth_threshold"`
	ThresholdRenounced       bool          `json:"threshold_renounced"`

	Paused bool `json:"paused"`

	// Lifetime counters, written under the protocol lock only.
	SovereignCount     uint64 `json:"sovereign_count"`
	TotalFeesCollected uint64 `json:"total_fees_collected"`

	InitializedAt time.Time `json:"initialized_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InitParams names the identities and token a fresh protocol starts with.
type InitParams struct {
	Authority     id.ParticipantID
	Treasury      id.ParticipantID
	CurrencyToken string
}

func (p InitParams) Validate() error {
	if p.Authority.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "authority is required")
	}
	if p.Treasury.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "treasury is required")
	}
	if p.CurrencyToken == "" {
		return dErrors.New(dErrors.CodeValidation, "currency token is required")
	}
	return nil
}

// NewConfig returns a config populated with defaults.
func NewConfig(p InitParams, now time.Time) (*Config, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Config{
		Authority:                p.Authority,
		Treasury:                 p.Treasury,
		CurrencyToken:            p.CurrencyToken,
		CreationFeeBps:           DefaultCreationFeeBps,
		MinFee:                   DefaultMinFee,
		GovernanceFee:            DefaultGovernanceFee,
		UnwindFeeBps:             DefaultUnwindFeeBps,
		BYOMinSupplyBps:          DefaultBYOMinSupplyBps,
		MinBondTarget:            DefaultMinBondTarget,
		MinDeposit:               DefaultMinDeposit,
		InactivityWindow:         DefaultInactivityWindow,
		ProposalInactivityPeriod: DefaultProposalInactivityPeriod,
		MinFeeGrowthThreshold:    DefaultMinFeeGrowthThreshold,
		InitializedAt:            now,
		UpdatedAt:                now,
	}, nil
}

// Authorize rejects callers other than the authority.
func (c *Config) Authorize(caller id.ParticipantID) error {
	if caller.IsZero() || caller != c.Authority {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the protocol authority")
	}
	return nil
}

// RequireNotPaused is checked by every operation the pause switch gates.
func (c *Config) RequireNotPaused() error {
	if c.Paused {
		return dErrors.New(dErrors.CodeState, "protocol is paused")
	}
	return nil
}

// CreationCharge is max(target*creation_fee_bps/10000, min_fee).
func (c *Config) CreationCharge(target uint64) (uint64, error) {
	fee, err := bps.Apply(target, c.CreationFeeBps)
	if err != nil {
		return 0, err
	}
	return max(fee, c.MinFee), nil
}

// FeeUpdate carries optional fee changes; nil fields are left untouched.
type FeeUpdate struct {
	CreationFeeBps  *bps.Rate `json:"creation_fee_bps,omitempty"`
	MinFee          *uint64   `json:"min_fee,omitempty"`
	GovernanceFee   *uint64   `json:"governance_fee,omitempty"`
	UnwindFeeBps    *bps.Rate `json:"unwind_fee_bps,omitempty"`
	BYOMinSupplyBps *bps.Rate `json:"byo_min_supply_bps,omitempty"`
	MinBondTarget   *uint64   `json:"min_bond_target,omitempty"`
	MinDeposit      *uint64   `json:"min_deposit,omitempty"`
}

func (u FeeUpdate) IsEmpty() bool {
	return u.CreationFeeBps == nil && u.MinFee == nil && u.GovernanceFee == nil &&
		u.UnwindFeeBps == nil && u.BYOMinSupplyBps == nil && u.MinBondTarget == nil && u.MinDeposit == nil
}

// Validate checks each present field against its bound.
func (u FeeUpdate) Validate() error {
	if u.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "no fee fields supplied")
	}
	if u.CreationFeeBps != nil {
		if err := u.CreationFeeBps.ValidateMax("creation fee", MaxCreationFeeBps); err != nil {
			return err
		}
	}
	if u.UnwindFeeBps != nil {
		if err := u.UnwindFeeBps.ValidateMax("unwind fee", MaxUnwindFeeBps); err != nil {
			return err
		}
	}
	if u.BYOMinSupplyBps != nil {
		if err := u.BYOMinSupplyBps.ValidateMax("byo minimum supply", bps.Rate(bps.Denominator)); err != nil {
			return err
		}
	}
	if u.MinBondTarget != nil && *u.MinBondTarget == 0 {
		return dErrors.New(dErrors.CodeValidation, "minimum bond target must be positive")
	}
	if u.MinDeposit != nil && *u.MinDeposit == 0 {
		return dErrors.New(dErrors.CodeValidation, "minimum deposit must be positive")
	}
	return nil
}

// ApplyFees writes the present fields. Call Validate first.
func (c *Config) ApplyFees(u FeeUpdate, now time.Time) {
	if u.CreationFeeBps != nil {
		c.CreationFeeBps = *u.CreationFeeBps
	}
	if u.MinFee != nil {
		c.MinFee = *u.MinFee
	}
	if u.GovernanceFee != nil {
		c.GovernanceFee = *u.GovernanceFee
	}
	if u.UnwindFeeBps != nil {
		c.UnwindFeeBps = *u.UnwindFeeBps
	}
	if u.BYOMinSupplyBps != nil {
		c.BYOMinSupplyBps = *u.BYOMinSupplyBps
	}
	if u.MinBondTarget != nil {
		c.MinBondTarget = *u.MinBondTarget
	}
	if u.MinDeposit != nil {
		c.MinDeposit = *u.MinDeposit
	}
	c.UpdatedAt = now
}

func (c *Config) SetActivityThreshold(v uint64, now time.Time) error {
	if c.ThresholdRenounced {
		return dErrors.New(dErrors.CodeState, "activity threshold has been renounced")
	}
	if v == 0 {
		return dErrors.New(dErrors.CodeValidation, "activity threshold must be positive")
	}
	c.MinFeeGrowthThreshold = v
	c.UpdatedAt = now
	return nil
}

func (c *Config) RenounceActivityThreshold(now time.Time) error {
	if c.ThresholdRenounced {
		return dErrors.New(dErrors.CodeState, "activity threshold already renounced")
	}
	c.ThresholdRenounced = true
	c.UpdatedAt = now
	return nil
}

func (c *Config) SetInactivityWindow(d time.Duration, now time.Time) error {
	if d < MinInactivityWindow || d > MaxInactivityWindow {
		return dErrors.Newf(dErrors.CodeValidation,
			"inactivity window must be between %d and %d days", MinInactivityWindow/day, MaxInactivityWindow/day)
	}
	c.InactivityWindow = d
	c.UpdatedAt = now
	return nil
}

func (c *Config) SetProposalInactivityPeriod(d time.Duration, now time.Time) error {
	if d < 0 {
		return dErrors.New(dErrors.CodeValidation, "proposal inactivity period must not be negative")
	}
	c.ProposalInactivityPeriod = d
	c.UpdatedAt = now
	return nil
}

func (c *Config) TransferAuthority(to id.ParticipantID, now time.Time) error {
	if to.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "new authority is required")
	}
	c.Authority = to
	c.UpdatedAt = now
	return nil
}

func (c *Config) SetPaused(paused bool, now time.Time) error {
	if c.Paused == paused {
		if paused {
			return dErrors.New(dErrors.CodeState, "protocol already paused")
		}
		return dErrors.New(dErrors.CodeState, "protocol is not paused")
	}
	c.Paused = paused
	c.UpdatedAt = now
	return nil
}

// RecordCreation bumps the lifetime counters for a new sovereign.
func (c *Config) RecordCreation(charge uint64) error {
	count, err := bps.Add(c.SovereignCount, 1)
	if err != nil {
		return err
	}
	total, err := bps.Add(c.TotalFeesCollected, charge)
	if err != nil {
		return err
	}
	c.SovereignCount = count
	c.TotalFeesCollected = total
	return nil
}
