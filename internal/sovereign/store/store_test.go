package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/store"
	"sovereign/internal/storage/kv"
	"sovereign/internal/storage/memory"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

type StoreSuite struct {
	suite.Suite
	ctx context.Context
	kv  kv.Store
	sid id.SovereignID
	now time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = memory.New()
	s.sid = id.NewSovereignID()
	s.now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) update(fn func(ctx context.Context, txn kv.Txn) error) error {
	return s.kv.Update(s.ctx, store.LockKey(s.sid), fn)
}

func (s *StoreSuite) view(fn func(ctx context.Context, r kv.Reader) error) {
	s.Require().NoError(s.kv.View(s.ctx, fn))
}

func (s *StoreSuite) TestSovereignRoundTrip() {
	sov := &models.Sovereign{ID: s.sid, Creator: "creator", Target: 10_000, State: models.StateBonding, CreatedAt: s.now}
	s.Require().NoError(s.update(func(ctx context.Context, txn kv.Txn) error {
		return store.SaveSovereign(ctx, txn, sov)
	}))

	s.view(func(ctx context.Context, r kv.Reader) error {
		got, err := store.GetSovereign(ctx, r, s.sid)
		s.Require().NoError(err)
		s.Equal(sov.Target, got.Target)
		s.Equal(models.StateBonding, got.State)
		s.True(got.CreatedAt.Equal(s.now))

		_, err = store.GetSovereign(ctx, r, id.NewSovereignID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		return nil
	})
}

func (s *StoreSuite) TestFinalizingIsNeverPersisted() {
	sov := &models.Sovereign{ID: s.sid, State: models.StateFinalizing}
	err := s.update(func(ctx context.Context, txn kv.Txn) error {
		return store.SaveSovereign(ctx, txn, sov)
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *StoreSuite) TestDepositsAreScopedAndOrdered() {
	other := id.NewSovereignID()
	s.Require().NoError(s.update(func(ctx context.Context, txn kv.Txn) error {
		for _, rec := range []*models.DepositRecord{
			{SovereignID: s.sid, Depositor: "carol", Amount: 3},
			{SovereignID: s.sid, Depositor: "alice", Amount: 1},
			{SovereignID: other, Depositor: "bob", Amount: 2},
		} {
			if err := store.SaveDeposit(ctx, txn, rec); err != nil {
				return err
			}
		}
		return nil
	}))

	s.view(func(ctx context.Context, r kv.Reader) error {
		recs, err := store.ListDeposits(ctx, r, s.sid)
		s.Require().NoError(err)
		s.Require().Len(recs, 2)
		s.Equal(id.ParticipantID("alice"), recs[0].Depositor)
		s.Equal(id.ParticipantID("carol"), recs[1].Depositor)

		missing, err := store.FindDeposit(ctx, r, s.sid, "bob")
		s.Require().NoError(err)
		s.Nil(missing)
		return nil
	})

	s.Require().NoError(s.update(func(ctx context.Context, txn kv.Txn) error {
		return store.DeleteDeposit(ctx, txn, s.sid, "alice")
	}))
	s.view(func(ctx context.Context, r kv.Reader) error {
		_, err := store.GetDeposit(ctx, r, s.sid, "alice")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		return nil
	})
}

func (s *StoreSuite) TestProposalsSortNumerically() {
	s.Require().NoError(s.update(func(ctx context.Context, txn kv.Txn) error {
		for _, pid := range []id.ProposalID{10, 2, 1} {
			if err := store.SaveProposal(ctx, txn, models.NewProposal(s.sid, pid, "alice", s.now)); err != nil {
				return err
			}
		}
		return nil
	}))
	s.view(func(ctx context.Context, r kv.Reader) error {
		ps, err := store.ListProposals(ctx, r, s.sid)
		s.Require().NoError(err)
		s.Require().Len(ps, 3)
		s.Equal([]id.ProposalID{1, 2, 10}, []id.ProposalID{ps[0].ID, ps[1].ID, ps[2].ID})
		return nil
	})
}

func (s *StoreSuite) TestVoteRecords() {
	vote := &models.VoteRecord{SovereignID: s.sid, ProposalID: 1, Voter: "alice", Depositor: "alice", Weight: 5000, Support: true}
	s.Require().NoError(s.update(func(ctx context.Context, txn kv.Txn) error {
		return store.SaveVote(ctx, txn, vote)
	}))
	s.view(func(ctx context.Context, r kv.Reader) error {
		voted, err := store.HasVoted(ctx, r, s.sid, 1, "alice")
		s.Require().NoError(err)
		s.True(voted)

		voted, err = store.HasVoted(ctx, r, s.sid, 2, "alice")
		s.Require().NoError(err)
		s.False(voted, "votes are per proposal")

		votes, err := store.ListVotes(ctx, r, s.sid, 1)
		s.Require().NoError(err)
		s.Len(votes, 1)
		return nil
	})
}

func (s *StoreSuite) TestFailedUpdateWritesNothing() {
	err := s.update(func(ctx context.Context, txn kv.Txn) error {
		if err := store.SaveEscrow(ctx, txn, models.NewCreatorEscrow(s.sid, s.now)); err != nil {
			return err
		}
		return dErrors.New(dErrors.CodeState, "abort")
	})
	s.Require().Error(err)
	s.view(func(ctx context.Context, r kv.Reader) error {
		_, err := store.GetEscrow(ctx, r, s.sid)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		return nil
	})
}
