package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sovereign/pkg/domain-errors"
)

// TestParseSovereignID_Invariants validates the parsing invariant:
// "sovereign IDs must be valid, non-empty, non-nil UUIDs"
func TestParseSovereignID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSovereignID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSovereignID("not-a-uuid")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseSovereignID(uuid.Nil.String())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		u := uuid.New()
		id, err := ParseSovereignID(u.String())
		require.NoError(t, err)
		assert.Equal(t, SovereignID(u), id)
	})

	t.Run("text round trip", func(t *testing.T) {
		id := NewSovereignID()
		b, err := id.MarshalText()
		require.NoError(t, err)
		var back SovereignID
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, id, back)
	})
}

func TestParseParticipantID(t *testing.T) {
	for _, bad := range []string{"", "a/b", "has space", strings.Repeat("x", MaxParticipantIDLength+1)} {
		_, err := ParseParticipantID(bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), "input %q", bad)
	}

	p, err := ParseParticipantID("alice")
	require.NoError(t, err)
	assert.Equal(t, ParticipantID("alice"), p)
}

func TestParseProposalID(t *testing.T) {
	_, err := ParseProposalID("0")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	p, err := ParseProposalID("7")
	require.NoError(t, err)
	assert.Equal(t, ProposalID(7), p)
	assert.Equal(t, "7", p.String())
}

func TestVaultAccountIsAValidParticipant(t *testing.T) {
	vault := VaultAccount(NewSovereignID())
	_, err := ParseParticipantID(vault.String())
	assert.NoError(t, err)
}
