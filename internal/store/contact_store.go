package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"airoi/internal/domain"
)

const contactsFilename = "contacts.json"

// ContactFileStore keeps the contact registry as an ordered JSON array in
// <home>/contacts.json.
type ContactFileStore struct {
	path string
	dups domain.DuplicatePolicy
	mu   sync.Mutex
}

// NewContactFileStore returns a store rooted at home. An invalid dups value
// is treated as DuplicatesAllow.
func NewContactFileStore(home string, dups domain.DuplicatePolicy) *ContactFileStore {
	if !dups.Valid() {
		dups = domain.DuplicatesAllow
	}
	return &ContactFileStore{path: filepath.Join(home, contactsFilename), dups: dups}
}

// List returns every contact in insertion order; empty if the file does not
// exist yet.
func (s *ContactFileStore) List() ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add appends c. Under DuplicatesReject a contact whose name or exchange
// fingerprint is already present is refused with ErrDuplicateContact.
func (s *ContactFileStore) Add(c domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	if s.dups == domain.DuplicatesReject {
		for _, have := range all {
			if have.Name == c.Name || (c.ExchangeFingerprint() != "" && have.ExchangeFingerprint() == c.ExchangeFingerprint()) {
				return domain.ProtocolError("add contact", fmt.Errorf("%w: %q", domain.ErrDuplicateContact, c.Name))
			}
		}
	}
	return writeJSON(s.path, append(all, c), 0o600)
}

// Remove drops the first contact named exactly name. No match is not an
// error and leaves the file untouched.
func (s *ContactFileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	for i, c := range all {
		if c.Name == name {
			all = append(all[:i], all[i+1:]...)
			return writeJSON(s.path, all, 0o600)
		}
	}
	return nil
}

func (s *ContactFileStore) load() ([]domain.Contact, error) {
	all := []domain.Contact{}
	if _, err := readJSON(s.path, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Compile-time assertion that ContactFileStore implements domain.ContactStore.
var _ domain.ContactStore = (*ContactFileStore)(nil)
