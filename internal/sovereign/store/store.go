// Package store maps sovereign aggregates onto the shared kv key space.
//
// Layout:
//
//	sovereign/<id>                  Sovereign
//	escrow/<id>                     CreatorEscrow
//	deposit/<id>/<depositor>        DepositRecord
//	proposal/<id>/<seq>             Proposal (seq zero-padded)
//	vote/<id>/<seq>/<depositor>     VoteRecord
//
// Every write for one sovereign happens under LockKey(id).
package store

import (
	"context"
	"errors"
	"fmt"

	"sovereign/internal/sovereign/models"
	"sovereign/internal/storage/kv"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/sentinel"
)

const (
	sovereignPrefix = "sovereign/"
	escrowPrefix    = "escrow/"
	depositPrefix   = "deposit/"
	proposalPrefix  = "proposal/"
	votePrefix      = "vote/"
)

func LockKey(sid id.SovereignID) string { return sovereignPrefix + sid.String() }

func sovereignKey(sid id.SovereignID) string { return sovereignPrefix + sid.String() }

func escrowKey(sid id.SovereignID) string { return escrowPrefix + sid.String() }

func depositKey(sid id.SovereignID, p id.ParticipantID) string {
	return depositPrefix + sid.String() + "/" + p.String()
}

func proposalKey(sid id.SovereignID, pid id.ProposalID) string {
	return fmt.Sprintf("%s%s/%020d", proposalPrefix, sid, uint64(pid))
}

func voteKey(sid id.SovereignID, pid id.ProposalID, depositor id.ParticipantID) string {
	return fmt.Sprintf("%s%s/%020d/%s", votePrefix, sid, uint64(pid), depositor)
}

func get[T any](ctx context.Context, r kv.Reader, key, what string) (*T, error) {
	v, err := kv.GetJSON[T](ctx, r, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "%s not found", what)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+what)
	}
	return &v, nil
}

func put(ctx context.Context, txn kv.Txn, key, what string, v any) error {
	if err := kv.PutJSON(ctx, txn, key, v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save "+what)
	}
	return nil
}

func GetSovereign(ctx context.Context, r kv.Reader, sid id.SovereignID) (*models.Sovereign, error) {
	return get[models.Sovereign](ctx, r, sovereignKey(sid), "sovereign")
}

// SaveSovereign refuses to persist the transient Finalizing state.
func SaveSovereign(ctx context.Context, txn kv.Txn, s *models.Sovereign) error {
	if s.State == models.StateFinalizing {
		return dErrors.New(dErrors.CodeInvariantViolation, "finalizing is never persisted")
	}
	return put(ctx, txn, sovereignKey(s.ID), "sovereign", s)
}

// ListSovereigns returns every sovereign ordered by id.
func ListSovereigns(ctx context.Context, r kv.Reader) ([]*models.Sovereign, error) {
	out, err := kv.ScanJSON[*models.Sovereign](ctx, r, sovereignPrefix)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sovereigns")
	}
	return out, nil
}

func GetEscrow(ctx context.Context, r kv.Reader, sid id.SovereignID) (*models.CreatorEscrow, error) {
	return get[models.CreatorEscrow](ctx, r, escrowKey(sid), "creator escrow")
}

func SaveEscrow(ctx context.Context, txn kv.Txn, e *models.CreatorEscrow) error {
	return put(ctx, txn, escrowKey(e.SovereignID), "creator escrow", e)
}

func GetDeposit(ctx context.Context, r kv.Reader, sid id.SovereignID, depositor id.ParticipantID) (*models.DepositRecord, error) {
	return get[models.DepositRecord](ctx, r, depositKey(sid, depositor), "deposit record")
}

// FindDeposit is GetDeposit returning nil for a missing record.
func FindDeposit(ctx context.Context, r kv.Reader, sid id.SovereignID, depositor id.ParticipantID) (*models.DepositRecord, error) {
	rec, err := GetDeposit(ctx, r, sid, depositor)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil, nil
	}
	return rec, err
}

func SaveDeposit(ctx context.Context, txn kv.Txn, rec *models.DepositRecord) error {
	return put(ctx, txn, depositKey(rec.SovereignID, rec.Depositor), "deposit record", rec)
}

func DeleteDeposit(ctx context.Context, txn kv.Txn, sid id.SovereignID, depositor id.ParticipantID) error {
	if err := txn.Delete(ctx, depositKey(sid, depositor)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete deposit record")
	}
	return nil
}

// ListDeposits returns a sovereign's records ordered by depositor.
func ListDeposits(ctx context.Context, r kv.Reader, sid id.SovereignID) ([]*models.DepositRecord, error) {
	out, err := kv.ScanJSON[*models.DepositRecord](ctx, r, depositPrefix+sid.String()+"/")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list deposit records")
	}
	return out, nil
}

func GetProposal(ctx context.Context, r kv.Reader, sid id.SovereignID, pid id.ProposalID) (*models.Proposal, error) {
	return get[models.Proposal](ctx, r, proposalKey(sid, pid), "proposal")
}

func SaveProposal(ctx context.Context, txn kv.Txn, p *models.Proposal) error {
	return put(ctx, txn, proposalKey(p.SovereignID, p.ID), "proposal", p)
}

// ListProposals returns a sovereign's proposals oldest first.
func ListProposals(ctx context.Context, r kv.Reader, sid id.SovereignID) ([]*models.Proposal, error) {
	out, err := kv.ScanJSON[*models.Proposal](ctx, r, proposalPrefix+sid.String()+"/")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list proposals")
	}
	return out, nil
}

// HasVoted reports whether depositor's share already voted on pid.
func HasVoted(ctx context.Context, r kv.Reader, sid id.SovereignID, pid id.ProposalID, depositor id.ParticipantID) (bool, error) {
	ok, err := kv.Exists(ctx, r, voteKey(sid, pid, depositor))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read vote record")
	}
	return ok, nil
}

func SaveVote(ctx context.Context, txn kv.Txn, v *models.VoteRecord) error {
	return put(ctx, txn, voteKey(v.SovereignID, v.ProposalID, v.Depositor), "vote record", v)
}

func ListVotes(ctx context.Context, r kv.Reader, sid id.SovereignID, pid id.ProposalID) ([]*models.VoteRecord, error) {
	prefix := fmt.Sprintf("%s%s/%020d/", votePrefix, sid, uint64(pid))
	out, err := kv.ScanJSON[*models.VoteRecord](ctx, r, prefix)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list votes")
	}
	return out, nil
}
