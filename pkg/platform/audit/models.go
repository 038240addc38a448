package audit

import (
	"time"
)

// Category groups lifecycle events for routing and retention.
type Category string

const (
	// CategoryLifecycle covers state transitions of a sovereign.
	CategoryLifecycle Category = "lifecycle"
	// CategoryFunds covers every movement of currency or tokens.
	CategoryFunds Category = "funds"
	// CategoryGovernance covers proposals, votes and activity checks.
	CategoryGovernance Category = "governance"
	// CategoryAdmin covers protocol-level configuration changes.
	CategoryAdmin Category = "admin"
)

// Event is emitted after a state-changing operation commits. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID          string
	Type        EventType
	SovereignID string
	// Actor is the participant that invoked the operation. Empty for
	// permissionless operations triggered without an authenticated caller.
	Actor     string
	Amounts   map[string]uint64
	RequestID string
	Timestamp time.Time
}

// Category returns the category derived from the event type.
func (e Event) Category() Category { return e.Type.Category() }

type EventType string

const (
	// Lifecycle
	EventSovereignCreated    EventType = "sovereign_created"
	EventSovereignFinalized  EventType = "sovereign_finalized"
	EventSovereignFailed     EventType = "sovereign_failed"
	EventRecoveryCompleted   EventType = "recovery_completed"
	EventPoolRestrictionLift EventType = "pool_restriction_lifted"
	EventUnwindExecuted      EventType = "unwind_executed"

	// Funds
	EventDepositMade             EventType = "deposit_made"
	EventDepositWithdrawn        EventType = "deposit_withdrawn"
	EventInvestorRefunded        EventType = "investor_refunded"
	EventCreatorFailedWithdrawal EventType = "creator_failed_withdrawal"
	EventFeesClaimed             EventType = "fees_claimed"
	EventInvestorFeesWithdrawn   EventType = "investor_fees_withdrawn"
	EventCreatorFeesWithdrawn    EventType = "creator_fees_withdrawn"
	EventSellTaxClaimed          EventType = "sell_tax_claimed"
	EventTransferFeesHarvested   EventType = "transfer_fees_harvested"
	EventUnwindFeeSettled        EventType = "unwind_fee_settled"
	EventPurchasedTokensClaimed  EventType = "purchased_tokens_claimed"
	EventInvestorUnwindClaimed   EventType = "investor_unwind_claimed"
	EventCreatorUnwindClaimed    EventType = "creator_unwind_claimed"
	EventFeeThresholdUpdated     EventType = "fee_threshold_updated"
	EventFeeThresholdRenounced   EventType = "fee_threshold_renounced"
	EventSellFeeUpdated          EventType = "sell_fee_updated"
	EventSellFeeRenounced        EventType = "sell_fee_renounced"

	// Governance
	EventProposalCreated        EventType = "proposal_created"
	EventVoteCast               EventType = "vote_cast"
	EventProposalFinalized      EventType = "proposal_finalized"
	EventProposalCancelled      EventType = "proposal_cancelled"
	EventActivityCheckInitiated EventType = "activity_check_initiated"
	EventActivityCheckExecuted  EventType = "activity_check_executed"
	EventActivityCheckCancelled EventType = "activity_check_cancelled"

	// Admin
	EventProtocolInitialized        EventType = "protocol_initialized"
	EventProtocolFeesUpdated        EventType = "protocol_fees_updated"
	EventAuthorityTransferred       EventType = "authority_transferred"
	EventProtocolPaused             EventType = "protocol_paused"
	EventProtocolUnpaused           EventType = "protocol_unpaused"
	EventActivityThresholdSet       EventType = "activity_threshold_set"
	EventActivityThresholdRenounced EventType = "activity_threshold_renounced"
	EventInactivityWindowUpdated    EventType = "inactivity_window_updated"
	EventProposalInactivityUpdated  EventType = "proposal_inactivity_period_updated"
)

var eventCategories = map[EventType]Category{
	EventSovereignCreated:    CategoryLifecycle,
	EventSovereignFinalized:  CategoryLifecycle,
	EventSovereignFailed:     CategoryLifecycle,
	EventRecoveryCompleted:   CategoryLifecycle,
	EventPoolRestrictionLift: CategoryLifecycle,
	EventUnwindExecuted:      CategoryLifecycle,

	EventDepositMade:             CategoryFunds,
	EventDepositWithdrawn:        CategoryFunds,
	EventInvestorRefunded:        CategoryFunds,
	EventCreatorFailedWithdrawal: CategoryFunds,
	EventFeesClaimed:             CategoryFunds,
	EventInvestorFeesWithdrawn:   CategoryFunds,
	EventCreatorFeesWithdrawn:    CategoryFunds,
	EventSellTaxClaimed:          CategoryFunds,
	EventTransferFeesHarvested:   CategoryFunds,
	EventUnwindFeeSettled:        CategoryFunds,
	EventPurchasedTokensClaimed:  CategoryFunds,
	EventInvestorUnwindClaimed:   CategoryFunds,
	EventCreatorUnwindClaimed:    CategoryFunds,
	EventFeeThresholdUpdated:     CategoryFunds,
	EventFeeThresholdRenounced:   CategoryFunds,
	EventSellFeeUpdated:          CategoryFunds,
	EventSellFeeRenounced:        CategoryFunds,

	EventProposalCreated:        CategoryGovernance,
	EventVoteCast:               CategoryGovernance,
	EventProposalFinalized:      CategoryGovernance,
	EventProposalCancelled:      CategoryGovernance,
	EventActivityCheckInitiated: CategoryGovernance,
	EventActivityCheckExecuted:  CategoryGovernance,
	EventActivityCheckCancelled: CategoryGovernance,

	EventProtocolInitialized:        CategoryAdmin,
	EventProtocolFeesUpdated:        CategoryAdmin,
	EventAuthorityTransferred:       CategoryAdmin,
	EventProtocolPaused:             CategoryAdmin,
	EventProtocolUnpaused:           CategoryAdmin,
	EventActivityThresholdSet:       CategoryAdmin,
	EventActivityThresholdRenounced: CategoryAdmin,
	EventInactivityWindowUpdated:    CategoryAdmin,
	EventProposalInactivityUpdated:  CategoryAdmin,
}

// Category returns the Category for this event type.
// Unknown types default to CategoryLifecycle.
func (t EventType) Category() Category {
	if cat, ok := eventCategories[t]; ok {
		return cat
	}
	return CategoryLifecycle
}
