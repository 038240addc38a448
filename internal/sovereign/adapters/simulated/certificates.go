package simulated

import (
	"context"
	"fmt"
	"sync"

	"sovereign/internal/sovereign/ports"
	id "sovereign/pkg/domain"
	"sovereign/pkg/platform/sentinel"
)

var _ ports.CertificateIssuer = (*Certificates)(nil)

type certificate struct {
	owner  id.ParticipantID
	meta   ports.CertificateMetadata
	burned bool
}

// Certificates is a transferable-certificate registry.
type Certificates struct {
	mu    sync.Mutex
	certs map[string]*certificate
	seq   uint64
}

func NewCertificates() *Certificates {
	return &Certificates{certs: make(map[string]*certificate)}
}

func (c *Certificates) MintCertificate(ctx context.Context, owner id.ParticipantID, meta ports.CertificateMetadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	ref := fmt.Sprintf("cert-%d", c.seq)
	c.certs[ref] = &certificate{owner: owner, meta: meta}
	return ref, nil
}

// VerifyOwnership is false for burned certificates.
func (c *Certificates) VerifyOwnership(ctx context.Context, ref string, claimant id.ParticipantID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cert, ok := c.certs[ref]
	if !ok {
		return false, fmt.Errorf("certificate %s: %w", ref, sentinel.ErrNotFound)
	}
	return !cert.burned && cert.owner == claimant, nil
}

func (c *Certificates) Burn(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cert, ok := c.certs[ref]
	if !ok {
		return fmt.Errorf("certificate %s: %w", ref, sentinel.ErrNotFound)
	}
	if cert.burned {
		return fmt.Errorf("certificate %s already burned", ref)
	}
	cert.burned = true
	return nil
}

// Transfer hands a certificate to a new owner, as a secondary sale would.
func (c *Certificates) Transfer(ref string, from, to id.ParticipantID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cert, ok := c.certs[ref]
	if !ok {
		return fmt.Errorf("certificate %s: %w", ref, sentinel.ErrNotFound)
	}
	if cert.burned || cert.owner != from {
		return fmt.Errorf("certificate %s is not held by %s", ref, from)
	}
	cert.owner = to
	return nil
}

// Owner returns the current holder of ref.
func (c *Certificates) Owner(ref string) (id.ParticipantID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cert, ok := c.certs[ref]
	if !ok || cert.burned {
		return "", false
	}
	return cert.owner, true
}
