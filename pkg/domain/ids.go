package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	dErrors "sovereign/pkg/domain-errors"
)

// SovereignID identifies one fundraising instance.
type SovereignID uuid.UUID

// NewSovereignID returns a fresh random identifier.
func NewSovereignID() SovereignID { return SovereignID(uuid.New()) }

// ParseSovereignID validates a non-nil UUID string.
func ParseSovereignID(s string) (SovereignID, error) {
	u, err := parseUUID(s, "sovereign id")
	if err != nil {
		return SovereignID{}, err
	}
	return SovereignID(u), nil
}

func (id SovereignID) String() string { return uuid.UUID(id).String() }

func (id SovereignID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id SovereignID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *SovereignID) UnmarshalText(b []byte) error {
	parsed, err := ParseSovereignID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be nil", field)
	}
	return u, nil
}

// MaxParticipantIDLength bounds participant identities used inside store keys.
const MaxParticipantIDLength = 128

// ParticipantID is an opaque account identity: a creator, an investor, the
// operator, the treasury or a vault.
// Invariant: non-empty, at most MaxParticipantIDLength bytes, no '/' or whitespace.
type ParticipantID string

// ParseParticipantID validates an identity at a trust boundary.
func ParseParticipantID(s string) (ParticipantID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "participant id is required")
	}
	if len(s) > MaxParticipantIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "participant id too long")
	}
	if strings.ContainsAny(s, "/ \t\r\n") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "participant id contains a reserved character")
	}
	return ParticipantID(s), nil
}

func (p ParticipantID) String() string { return string(p) }

func (p ParticipantID) IsZero() bool { return p == "" }

// VaultAccount is the account that custodies a sovereign's funds.
func VaultAccount(id SovereignID) ParticipantID {
	return ParticipantID("vault:" + id.String())
}

// ProposalID is a per-sovereign sequence number, starting at 1.
type ProposalID uint64

func (p ProposalID) String() string { return strconv.FormatUint(uint64(p), 10) }

// ParseProposalID parses a positive decimal proposal number.
func ParseProposalID(s string) (ProposalID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid proposal id")
	}
	return ProposalID(n), nil
}
