package service

import (
	"context"

	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/store"
	"sovereign/internal/storage/kv"
	id "sovereign/pkg/domain"
)

func (s *Service) Get(ctx context.Context, sid id.SovereignID) (*models.Sovereign, error) {
	var out *models.Sovereign
	err := s.view(ctx, func(ctx context.Context, r kv.Reader) error {
		var err error
		out, err = store.GetSovereign(ctx, r, sid)
		return err
	})
	return out, err
}

func (s *Service) List(ctx context.Context) ([]*models.Sovereign, error) {
	var out []*models.Sovereign
	err := s.view(ctx, func(ctx context.Context, r kv.Reader) error {
		var err error
		out, err = store.ListSovereigns(ctx, r)
		return err
	})
	return out, err
}

// ListDeposits returns the sovereign's records; the sovereign must exist.
func (s *Service) ListDeposits(ctx context.Context, sid id.SovereignID) ([]*models.DepositRecord, error) {
	var out []*models.DepositRecord
	err := s.view(ctx, func(ctx context.Context, r kv.Reader) error {
		if _, err := store.GetSovereign(ctx, r, sid); err != nil {
			return err
		}
		var err error
		out, err = store.ListDeposits(ctx, r, sid)
		return err
	})
	return out, err
}

func (s *Service) GetDeposit(ctx context.Context, sid id.SovereignID, depositor id.ParticipantID) (*models.DepositRecord, error) {
	var out *models.DepositRecord
	err := s.view(ctx, func(ctx context.Context, r kv.Reader) error {
		var err error
		out, err = store.GetDeposit(ctx, r, sid, depositor)
		return err
	})
	return out, err
}

func (s *Service) GetEscrow(ctx context.Context, sid id.SovereignID) (*models.CreatorEscrow, error) {
	var out *models.CreatorEscrow
	err := s.view(ctx, func(ctx context.Context, r kv.Reader) error {
		var err error
		out, err = store.GetEscrow(ctx, r, sid)
		return err
	})
	return out, err
}

func (s *Service) GetProposal(ctx context.Context, sid id.SovereignID, pid id.ProposalID) (*models.Proposal, error) {
	var out *models.Proposal
	err := s.view(ctx, func(ctx context.Context, r kv.Reader) error {
		var err error
		out, err = store.GetProposal(ctx, r, sid, pid)
		return err
	})
	return out, err
}

func (s *Service) ListProposals(ctx context.Context, sid id.SovereignID) ([]*models.Proposal, error) {
	var out []*models.Proposal
	err := s.view(ctx, func(ctx context.Context, r kv.Reader) error {
		var err error
		out, err = store.ListProposals(ctx, r, sid)
		return err
	})
	return out, err
}
