package service

import (
	"context"

	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/store"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

// ProposeUnwind opens an unwind proposal. Only investors may propose, and
// only after the proposal inactivity period; the governance fee goes to the
// treasury.
func (s *Service) ProposeUnwind(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Proposal, error) {
	var out *models.Proposal
	_, err := s.execute(ctx, "sovereign.propose_unwind", sid, func(o *op) error {
		if err := o.requireNotPaused(); err != nil {
			return err
		}
		if err := o.sov.Require(models.OpProposeUnwind); err != nil {
			return err
		}
		rec, err := store.FindDeposit(o.ctx, o.txn, o.sov.ID, caller)
		if err != nil {
			return err
		}
		if rec == nil || rec.ShareBps == 0 {
			return dErrors.New(dErrors.CodeUnauthorized, "only investors may propose an unwind")
		}
		p, err := o.sov.OpenProposal(caller, o.cfg.ProposalInactivityPeriod, o.now)
		if err != nil {
			return err
		}
		if err := o.pay(caller, o.cfg.Treasury, o.cfg.GovernanceFee); err != nil {
			return err
		}
		if err := store.SaveProposal(o.ctx, o.txn, p); err != nil {
			return err
		}
		o.flow("treasury", o.cfg.GovernanceFee)
		o.emit(audit.EventProposalCreated, caller, map[string]uint64{
			"proposal_id":    uint64(p.ID),
			"governance_fee": o.cfg.GovernanceFee,
		})
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Vote casts the share of depositor's record, which caller must hold the
// certificate for. One vote per record per proposal.
func (s *Service) Vote(ctx context.Context, sid id.SovereignID, pid id.ProposalID, depositor, caller id.ParticipantID, support bool) (*models.Proposal, error) {
	var out *models.Proposal
	_, err := s.execute(ctx, "sovereign.vote", sid, func(o *op) error {
		if err := o.sov.Require(models.OpVote); err != nil {
			return err
		}
		p, err := store.GetProposal(o.ctx, o.txn, o.sov.ID, pid)
		if err != nil {
			return err
		}
		rec, err := store.GetDeposit(o.ctx, o.txn, o.sov.ID, depositor)
		if err != nil {
			return err
		}
		if err := o.requireHolder(rec.CertificateRef, caller); err != nil {
			return err
		}
		voted, err := store.HasVoted(o.ctx, o.txn, o.sov.ID, pid, depositor)
		if err != nil {
			return err
		}
		if voted {
			return dErrors.Newf(dErrors.CodeState, "%s already voted on proposal %s", depositor, pid)
		}
		if err := p.CastVote(rec.ShareBps, support, o.now); err != nil {
			return err
		}
		vote := &models.VoteRecord{
			SovereignID:    o.sov.ID,
			ProposalID:     pid,
			Voter:          caller,
			Depositor:      depositor,
			CertificateRef: rec.CertificateRef,
			Support:        support,
			Weight:         rec.ShareBps,
			VotedAt:        o.now,
		}
		if err := store.SaveVote(o.ctx, o.txn, vote); err != nil {
			return err
		}
		if err := store.SaveProposal(o.ctx, o.txn, p); err != nil {
			return err
		}
		o.emit(audit.EventVoteCast, caller, map[string]uint64{
			"proposal_id": uint64(pid),
			"weight":      uint64(rec.ShareBps),
			"support":     boolAmount(support),
		})
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FinalizeVote tallies a proposal whose voting period ended. A proposal that
// was already decided is returned unchanged.
func (s *Service) FinalizeVote(ctx context.Context, sid id.SovereignID, pid id.ProposalID, caller id.ParticipantID) (*models.Proposal, error) {
	var out *models.Proposal
	_, err := s.execute(ctx, "sovereign.finalize_vote", sid, func(o *op) error {
		p, err := store.GetProposal(o.ctx, o.txn, o.sov.ID, pid)
		if err != nil {
			return err
		}
		out = p
		if p.Status != models.ProposalActive {
			return nil
		}
		if err := o.sov.Require(models.OpFinalizeVote); err != nil {
			return err
		}
		passed, err := p.Tally(o.now)
		if err != nil {
			return err
		}
		if err := o.sov.ApplyTally(passed, o.now); err != nil {
			return err
		}
		if err := store.SaveProposal(o.ctx, o.txn, p); err != nil {
			return err
		}
		o.emit(audit.EventProposalFinalized, caller, map[string]uint64{
			"proposal_id":   uint64(pid),
			"votes_for":     p.VotesFor,
			"votes_against": p.VotesAgainst,
			"passed":        boolAmount(passed),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteUnwind carries out a passed proposal once its timelock has elapsed.
// Calls before then fail with a timing error and change nothing.
func (s *Service) ExecuteUnwind(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error) {
	sov, err := s.execute(ctx, "sovereign.execute_unwind", sid, func(o *op) error {
		if err := o.sov.Require(models.OpExecuteUnwind); err != nil {
			return err
		}
		if o.sov.State != models.StateUnwinding || !o.sov.HasActiveProposal {
			return dErrors.New(dErrors.CodeState, "no passed proposal awaiting execution")
		}
		p, err := store.GetProposal(o.ctx, o.txn, o.sov.ID, o.sov.ActiveProposal)
		if err != nil {
			return err
		}
		if err := p.RequireExecutable(o.now); err != nil {
			return err
		}
		if err := o.unwind(caller, "governance"); err != nil {
			return err
		}
		p.MarkExecuted(o.now)
		return store.SaveProposal(o.ctx, o.txn, p)
	})
	if err != nil {
		return nil, err
	}
	return s.settleTreasury(ctx, sov, caller), nil
}

func boolAmount(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
