package models

import (
	"time"

	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

// Proposal is an unwind vote. At most one is active per sovereign.
//
// Invariants:
//   - VotesFor + VotesAgainst == TotalVoted <= 10000
//   - QuorumBps and PassThresholdBps are fixed at creation
//   - status moves active -> passed|failed|cancelled, passed -> executed
type Proposal struct {
	SovereignID id.SovereignID   `json:"sovereign_id"`
	ID          id.ProposalID    `json:"id"`
	Proposer    id.ParticipantID `json:"proposer"`
	Status      ProposalStatus   `json:"status"`

	VotesFor     uint64 `json:"votes_for"`
	VotesAgainst uint64 `json:"votes_against"`
	TotalVoted   uint64 `json:"total_voted"`
	VoterCount   uint64 `json:"voter_count"`

	QuorumBps        bps.Rate `json:"quorum_bps"`
	PassThresholdBps bps.Rate `json:"pass_threshold_bps"`

	CreatedAt      time.Time `json:"created_at"`
	VotingEndsAt   time.Time `json:"voting_ends_at"`
	TimelockEndsAt time.Time `json:"timelock_ends_at,omitzero"`
	FinalizedAt    time.Time `json:"finalized_at,omitzero"`
	ExecutedAt     time.Time `json:"executed_at,omitzero"`
}

func NewProposal(sid id.SovereignID, pid id.ProposalID, proposer id.ParticipantID, now time.Time) *Proposal {
	return &Proposal{
		SovereignID:      sid,
		ID:               pid,
		Proposer:         proposer,
		Status:           ProposalActive,
		QuorumBps:        QuorumBps,
		PassThresholdBps: PassThresholdBps,
		CreatedAt:        now,
		VotingEndsAt:     now.Add(VotingPeriod),
	}
}

// VoteRecord exists once per (proposal, depositor); its presence is the
// double-vote guard.
type VoteRecord struct {
	SovereignID    id.SovereignID   `json:"sovereign_id"`
	ProposalID     id.ProposalID    `json:"proposal_id"`
	Voter          id.ParticipantID `json:"voter"`
	Depositor      id.ParticipantID `json:"depositor"`
	CertificateRef string           `json:"certificate_ref"`
	Support        bool             `json:"support"`
	Weight         bps.Rate         `json:"weight"`
	VotedAt        time.Time        `json:"voted_at"`
}

// CastVote tallies one vote while the voting window is open.
func (p *Proposal) CastVote(weight bps.Rate, support bool, now time.Time) error {
	if p.Status != ProposalActive {
		return dErrors.Newf(dErrors.CodeState, "proposal %s is %s", p.ID, p.Status)
	}
	if !now.Before(p.VotingEndsAt) {
		return dErrors.New(dErrors.CodeTiming, "voting period has ended")
	}
	if weight == 0 {
		return dErrors.New(dErrors.CodeUnauthorized, "voter holds no share")
	}
	total, err := bps.Add(p.TotalVoted, uint64(weight))
	if err != nil {
		return err
	}
	if total > bps.Denominator {
		return dErrors.New(dErrors.CodeInvariantViolation, "votes exceed total shares")
	}
	if support {
		p.VotesFor += uint64(weight)
	} else {
		p.VotesAgainst += uint64(weight)
	}
	p.TotalVoted = total
	p.VoterCount++
	return nil
}

// Tally decides the proposal once voting has ended. Quorum and pass ratio are
// both measured on cast votes.
func (p *Proposal) Tally(now time.Time) (passed bool, err error) {
	if p.Status != ProposalActive {
		return false, dErrors.Newf(dErrors.CodeState, "proposal %s is %s", p.ID, p.Status)
	}
	if now.Before(p.VotingEndsAt) {
		return false, dErrors.Newf(dErrors.CodeTiming, "voting ends at %s", p.VotingEndsAt.Format(time.RFC3339))
	}
	cast := p.VotesFor + p.VotesAgainst
	passed = cast >= uint64(p.QuorumBps)
	if passed {
		ratio, err := bps.Ratio(p.VotesFor, cast)
		if err != nil {
			return false, err
		}
		passed = ratio >= p.PassThresholdBps
	}
	p.FinalizedAt = now
	if passed {
		p.Status = ProposalPassed
		p.TimelockEndsAt = now.Add(TimelockPeriod)
	} else {
		p.Status = ProposalFailed
	}
	return passed, nil
}

// RequireExecutable checks the timelock has elapsed on a passed proposal.
func (p *Proposal) RequireExecutable(now time.Time) error {
	if p.Status != ProposalPassed {
		return dErrors.Newf(dErrors.CodeState, "proposal %s is %s", p.ID, p.Status)
	}
	if now.Before(p.TimelockEndsAt) {
		return dErrors.Newf(dErrors.CodeTiming, "timelock ends at %s", p.TimelockEndsAt.Format(time.RFC3339))
	}
	return nil
}

func (p *Proposal) MarkExecuted(now time.Time) {
	p.Status = ProposalExecuted
	p.ExecutedAt = now
}

// Cancel ends a proposal that recovery overtook before voting was decided.
func (p *Proposal) Cancel(now time.Time) error {
	if p.Status != ProposalActive {
		return dErrors.Newf(dErrors.CodeState, "proposal %s is %s", p.ID, p.Status)
	}
	p.Status = ProposalCancelled
	p.FinalizedAt = now
	return nil
}

// OpenProposal registers p as the sovereign's single active proposal.
func (s *Sovereign) OpenProposal(proposer id.ParticipantID, inactivity time.Duration, now time.Time) (*Proposal, error) {
	if s.HasActiveProposal {
		return nil, dErrors.Newf(dErrors.CodeState, "proposal %s is already open", s.ActiveProposal)
	}
	if now.Sub(s.LastActivityAt) < inactivity {
		return nil, dErrors.Newf(dErrors.CodeTiming,
			"proposals open after %s without fee activity (last activity %s)", inactivity, s.LastActivityAt.Format(time.RFC3339))
	}
	s.ProposalCount++
	pid := id.ProposalID(s.ProposalCount)
	s.ActiveProposal = pid
	s.HasActiveProposal = true
	s.UpdatedAt = now
	return NewProposal(s.ID, pid, proposer, now), nil
}

// ApplyTally moves the sovereign after its active proposal was decided.
func (s *Sovereign) ApplyTally(passed bool, now time.Time) error {
	if passed {
		return s.transition(StateUnwinding, now)
	}
	s.ClearProposal(now)
	return nil
}

func (s *Sovereign) ClearProposal(now time.Time) {
	s.HasActiveProposal = false
	s.ActiveProposal = 0
	s.UpdatedAt = now
}
