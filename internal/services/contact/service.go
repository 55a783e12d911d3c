package contact

import (
	"fmt"
	"strings"
	"time"

	"airoi/internal/crypto"
	"airoi/internal/domain"
)

// Service wraps a domain.ContactStore with key handling.
type Service struct {
	store domain.ContactStore
	now   func() time.Time
}

// New returns a Service over store.
func New(store domain.ContactStore) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// NewContact builds a contact from a peer's Ed25519 public key. The
// exchange key, and with it the fingerprint the peer will present in a
// handshake, is derived from the signing key.
func NewContact(name string, signingPublic []byte, address string, at time.Time) (domain.Contact, error) {
	bundle, err := crypto.PublicBundleFromSigning(signingPublic)
	if err != nil {
		return domain.Contact{}, err
	}
	return domain.Contact{Name: name, PublicKey: bundle, Address: address, AddedAt: at}, nil
}

// Add parses signingKey (base58) and stores the resulting contact.
func (s *Service) Add(name, signingKey, address string) (domain.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Contact{}, domain.DecodeError("add contact", fmt.Errorf("empty name"))
	}
	raw, err := crypto.DecodeKey(strings.TrimSpace(signingKey))
	if err != nil {
		return domain.Contact{}, err
	}
	c, err := NewContact(name, raw, strings.TrimSpace(address), s.now())
	if err != nil {
		return domain.Contact{}, err
	}
	if err := s.store.Add(c); err != nil {
		return domain.Contact{}, err
	}
	return c, nil
}

// Remove deletes the first contact called name.
func (s *Service) Remove(name string) error { return s.store.Remove(name) }

// List returns all contacts in insertion order.
func (s *Service) List() ([]domain.Contact, error) { return s.store.List() }

// Find returns the first contact called name.
func (s *Service) Find(name string) (domain.Contact, bool, error) {
	all, err := s.store.List()
	if err != nil {
		return domain.Contact{}, false, err
	}
	for _, c := range all {
		if c.Name == name {
			return c, true, nil
		}
	}
	return domain.Contact{}, false, nil
}
