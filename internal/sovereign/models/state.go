package models

import (
	"slices"

	dErrors "sovereign/pkg/domain-errors"
)

// State is the lifecycle phase of a sovereign.
type State string

const (
	StateBonding    State = "bonding"
	StateFinalizing State = "finalizing"
	StateRecovery   State = "recovery"
	StateActive     State = "active"
	StateUnwinding  State = "unwinding"
	StateUnwound    State = "unwound"
	StateFailed     State = "failed"
)

func (s State) String() string { return string(s) }

// IsTerminal reports whether no further transition can leave s.
func (s State) IsTerminal() bool {
	return s == StateUnwound || s == StateFailed
}

// transitions lists the only legal edges. Finalizing is transient and never
// persisted; it exists so that Bonding -> Recovery passes through it.
var transitions = map[State][]State{
	StateBonding:    {StateFinalizing, StateFailed},
	StateFinalizing: {StateRecovery},
	StateRecovery:   {StateActive, StateUnwinding},
	StateActive:     {StateUnwound},
	StateUnwinding:  {StateUnwound},
}

// CanTransitionTo reports whether s -> next is a legal edge.
func (s State) CanTransitionTo(next State) bool {
	return slices.Contains(transitions[s], next)
}

// Operation names a state-gated sovereign operation.
type Operation string

const (
	OpDeposit               Operation = "deposit"
	OpWithdraw              Operation = "withdraw"
	OpFinalize              Operation = "finalize"
	OpMarkFailed            Operation = "mark_failed"
	OpClaimFees             Operation = "claim_fees"
	OpProposeUnwind         Operation = "propose_unwind"
	OpVote                  Operation = "vote"
	OpFinalizeVote          Operation = "finalize_vote"
	OpExecuteUnwind         Operation = "execute_unwind"
	OpInitiateActivityCheck Operation = "initiate_activity_check"
	OpExecuteActivityCheck  Operation = "execute_activity_check"
	OpRefund                Operation = "refund"
	OpCreatorWithdrawFailed Operation = "creator_withdraw_failed"
	OpClaimInvestorUnwind   Operation = "claim_investor_unwind"
	OpClaimCreatorUnwind    Operation = "claim_creator_unwind"
	OpWithdrawDepositorFees Operation = "withdraw_depositor_fees"
	OpWithdrawCreatorFees   Operation = "withdraw_creator_fees"
	OpClaimSellTax          Operation = "claim_sell_tax"
	OpClaimPurchasedTokens  Operation = "claim_purchased_tokens"
	OpUpdateFeeThreshold    Operation = "update_fee_threshold"
	OpUpdateSellFee         Operation = "update_sell_fee"
	OpLiftPoolRestriction   Operation = "lift_pool_restriction"
	OpCancelActivityCheck   Operation = "cancel_activity_check"
	OpSettleUnwindFee       Operation = "settle_unwind_fee"
	OpHarvestTransferFees   Operation = "harvest_transfer_fees"
)

// legal is the state x operation table. Anything absent is a state error.
var legal = map[State][]Operation{
	StateBonding: {
		OpDeposit, OpWithdraw, OpFinalize, OpMarkFailed,
		OpUpdateFeeThreshold, OpUpdateSellFee,
	},
	StateRecovery: {
		OpClaimFees, OpProposeUnwind, OpVote, OpFinalizeVote, OpExecuteUnwind,
		OpWithdrawDepositorFees, OpUpdateFeeThreshold, OpUpdateSellFee,
		OpHarvestTransferFees,
	},
	StateActive: {
		OpClaimFees, OpInitiateActivityCheck, OpExecuteActivityCheck,
		OpCancelActivityCheck, OpWithdrawDepositorFees, OpWithdrawCreatorFees,
		OpClaimSellTax, OpClaimPurchasedTokens, OpUpdateFeeThreshold,
		OpUpdateSellFee, OpLiftPoolRestriction, OpHarvestTransferFees,
	},
	StateFailed:    {OpRefund, OpCreatorWithdrawFailed},
	StateUnwinding: {OpExecuteUnwind, OpWithdrawDepositorFees},
	StateUnwound: {
		OpClaimInvestorUnwind, OpClaimCreatorUnwind, OpClaimPurchasedTokens,
		OpWithdrawDepositorFees, OpWithdrawCreatorFees, OpClaimSellTax,
		OpSettleUnwindFee,
	},
}

// Allows reports whether op may run while the sovereign is in s.
func (s State) Allows(op Operation) bool {
	return slices.Contains(legal[s], op)
}

// Require returns a state error unless op is legal in s.
func (s State) Require(op Operation) error {
	if !s.Allows(op) {
		return dErrors.Newf(dErrors.CodeState, "%s is not allowed while sovereign is %s", op, s)
	}
	return nil
}

// LaunchKind says where the sovereign's token comes from.
type LaunchKind string

const (
	LaunchNewToken      LaunchKind = "new_token"
	LaunchExistingToken LaunchKind = "existing_token"
)

func (k LaunchKind) IsValid() bool {
	return k == LaunchNewToken || k == LaunchExistingToken
}

// FeeMode decides how position fees split once a sovereign is Active.
type FeeMode string

const (
	FeeModeCreatorRevenue FeeMode = "creator_revenue"
	FeeModeRecoveryBoost  FeeMode = "recovery_boost"
	FeeModeFairLaunch     FeeMode = "fair_launch"
)

func (m FeeMode) IsValid() bool {
	switch m {
	case FeeModeCreatorRevenue, FeeModeRecoveryBoost, FeeModeFairLaunch:
		return true
	}
	return false
}

// ProposalStatus is the governance state of one proposal.
type ProposalStatus string

const (
	ProposalActive    ProposalStatus = "active"
	ProposalPassed    ProposalStatus = "passed"
	ProposalFailed    ProposalStatus = "failed"
	ProposalExecuted  ProposalStatus = "executed"
	ProposalCancelled ProposalStatus = "cancelled"
)
