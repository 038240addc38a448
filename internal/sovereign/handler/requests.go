package handler

import (
	"time"

	pmodels "sovereign/internal/protocol/models"
	"sovereign/internal/sovereign/models"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

// CreateRequest opens a new sovereign; the caller becomes its creator.
type CreateRequest struct {
	LaunchKind      models.LaunchKind `json:"launch_kind"`
	TokenSupply     uint64            `json:"token_supply,omitempty"`
	TokenRef        string            `json:"token_ref,omitempty"`
	TokenDeposit    uint64            `json:"token_deposit,omitempty"`
	Target          uint64            `json:"target"`
	BondDuration    string            `json:"bond_duration"`
	SellFeeBps      bps.Rate          `json:"sell_fee_bps,omitempty"`
	FeeMode         models.FeeMode    `json:"fee_mode"`
	FeeThresholdBps bps.Rate          `json:"fee_threshold_bps,omitempty"`
}

func (r CreateRequest) toParams(creator id.ParticipantID) (models.CreateParams, error) {
	duration, err := parseDuration("bond_duration", r.BondDuration)
	if err != nil {
		return models.CreateParams{}, err
	}
	return models.CreateParams{
		Creator:         creator,
		LaunchKind:      r.LaunchKind,
		TokenSupply:     r.TokenSupply,
		TokenRef:        r.TokenRef,
		TokenDeposit:    r.TokenDeposit,
		Target:          r.Target,
		BondDuration:    duration,
		SellFeeBps:      r.SellFeeBps,
		FeeMode:         r.FeeMode,
		FeeThresholdBps: r.FeeThresholdBps,
	}, nil
}

type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

type AmountResponse struct {
	Amount uint64 `json:"amount"`
}

// DepositorRequest names the deposit record acted on. An empty depositor
// means the caller's own record.
type DepositorRequest struct {
	Depositor string `json:"depositor,omitempty"`
}

func (r DepositorRequest) depositorOr(caller id.ParticipantID) (id.ParticipantID, error) {
	if r.Depositor == "" {
		return caller, nil
	}
	return id.ParseParticipantID(r.Depositor)
}

// RateUpdateRequest lowers a creator-controlled rate, or renounces it.
type RateUpdateRequest struct {
	Bps      *bps.Rate `json:"bps,omitempty"`
	Renounce bool      `json:"renounce,omitempty"`
}

func (r RateUpdateRequest) validate() error {
	if r.Renounce == (r.Bps != nil) {
		return dErrors.New(dErrors.CodeBadRequest, "exactly one of bps or renounce is required")
	}
	return nil
}

type ProposalRequest struct {
	ProposalID id.ProposalID `json:"proposal_id"`
}

type VoteRequest struct {
	ProposalID id.ProposalID `json:"proposal_id"`
	Depositor  string        `json:"depositor,omitempty"`
	Support    *bool         `json:"support"`
}

func (r VoteRequest) depositorOr(caller id.ParticipantID) (id.ParticipantID, error) {
	return DepositorRequest{Depositor: r.Depositor}.depositorOr(caller)
}

// InitializeRequest sets up the protocol. The authority defaults to the caller.
type InitializeRequest struct {
	Authority     string `json:"authority,omitempty"`
	Treasury      string `json:"treasury"`
	CurrencyToken string `json:"currency_token"`
}

func (r InitializeRequest) toParams(caller id.ParticipantID) (pmodels.InitParams, error) {
	authority := caller
	if r.Authority != "" {
		var err error
		if authority, err = id.ParseParticipantID(r.Authority); err != nil {
			return pmodels.InitParams{}, err
		}
	}
	treasury, err := id.ParseParticipantID(r.Treasury)
	if err != nil {
		return pmodels.InitParams{}, err
	}
	return pmodels.InitParams{Authority: authority, Treasury: treasury, CurrencyToken: r.CurrencyToken}, nil
}

type AuthorityRequest struct {
	Authority string `json:"authority"`
}

type ThresholdRequest struct {
	Threshold uint64 `json:"threshold"`
}

// DurationRequest carries a Go duration string such as "2160h".
type DurationRequest struct {
	Duration string `json:"duration"`
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "%s is required", field)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", field)
	}
	return d, nil
}
