package identity

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"airoi/internal/crypto"
	"airoi/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrIdentityExists is returned by Generate when a key pair is already
	// stored and overwrite was not requested.
	ErrIdentityExists = errors.New("an identity already exists; use --force to replace it")
)

// KeyStore is the subset of store.KeyStore the service needs.
type KeyStore interface {
	StoreKeyPair(kp domain.KeyPair) error
	FetchLocalKeyPair() (domain.KeyPair, error)
}

// Summary is the public description of the local identity.
type Summary struct {
	// ExchangeFingerprint is what peers see during the handshake and match
	// their contacts on.
	ExchangeFingerprint string
	// SigningKey is the base58 Ed25519 public key peers add as a contact.
	SigningKey string
	// SigningFingerprint identifies the signing key in contact listings.
	SigningFingerprint string
	CreatedAt          time.Time
}

func summarize(kp domain.KeyPair) Summary {
	return Summary{
		ExchangeFingerprint: kp.Public.Exchange.Fingerprint,
		SigningKey:          kp.Public.Signing.Encoded,
		SigningFingerprint:  kp.Public.Signing.Fingerprint,
		CreatedAt:           kp.CreatedAt,
	}
}

// Service manages the local identity through a KeyStore.
type Service struct {
	keys KeyStore
}

// New returns an identity service backed by keys.
func New(keys KeyStore) *Service {
	return &Service{keys: keys}
}

// Generate creates and stores a fresh key pair. An existing identity is only
// replaced when overwrite is set; any failure to read the existing one other
// than "nothing stored" is returned rather than risk clobbering it.
func (s *Service) Generate(overwrite bool) (Summary, error) {
	if !overwrite {
		existing, err := s.keys.FetchLocalKeyPair()
		switch {
		case err == nil:
			existing.Wipe()
			return Summary{}, ErrIdentityExists
		case !errors.Is(err, domain.ErrNoIdentity):
			return Summary{}, err
		}
	}

	kp, err := crypto.GenerateIdentity()
	if err != nil {
		return Summary{}, err
	}
	defer kp.Wipe()

	if err := s.keys.StoreKeyPair(kp); err != nil {
		return Summary{}, err
	}
	return summarize(kp), nil
}

// Describe loads the identity and returns only its public parts.
func (s *Service) Describe() (Summary, error) {
	kp, err := s.keys.FetchLocalKeyPair()
	if err != nil {
		return Summary{}, err
	}
	defer kp.Wipe()
	return summarize(kp), nil
}

// CheckPassphrase enforces the strength policy for new passphrases.
func CheckPassphrase(passphrase []byte) error {
	if !isSecurePassphrase(string(passphrase)) {
		return ErrWeakPassphrase
	}
	return nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len([]rune(passphrase)) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
