package domain

import (
	"strings"
	"time"

	"airoi/internal/util/memzero"
)

// KeyMaterial is one raw key with its textual forms.
//
// Encoded and Fingerprint are filled for public material only. Private
// material carries Raw alone so that every copy of the secret lives in a
// byte slice that can be wiped.
type KeyMaterial struct {
	Raw         []byte `json:"raw"`
	Encoded     string `json:"b58,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// IsZero reports whether no key bytes are present.
func (k KeyMaterial) IsZero() bool { return len(k.Raw) == 0 }

// Clone returns a deep copy.
func (k KeyMaterial) Clone() KeyMaterial {
	out := k
	if k.Raw != nil {
		out.Raw = append([]byte(nil), k.Raw...)
	}
	return out
}

// KeyBundle pairs a signing (Ed25519) key with its exchange (X25519) key.
type KeyBundle struct {
	Signing  KeyMaterial `json:"ed25519"`
	Exchange KeyMaterial `json:"x25519"`
}

// Clone returns a deep copy.
func (b KeyBundle) Clone() KeyBundle {
	return KeyBundle{Signing: b.Signing.Clone(), Exchange: b.Exchange.Clone()}
}

// KeyPair is the local long-term identity.
//
// Private.Signing.Raw is the 32-byte Ed25519 seed; the exchange pair is
// always derived from it and never generated independently.
type KeyPair struct {
	Private   KeyBundle `json:"private"`
	Public    KeyBundle `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy. The caller owns (and must wipe) the copy.
func (kp KeyPair) Clone() KeyPair {
	return KeyPair{Private: kp.Private.Clone(), Public: kp.Public.Clone(), CreatedAt: kp.CreatedAt}
}

// Wipe zeroes the private key bytes in place.
func (kp *KeyPair) Wipe() {
	memzero.Zero(kp.Private.Signing.Raw, kp.Private.Exchange.Raw)
}

// Contact is a trust anchor. Name is a display label only; matching is
// always done on the exchange-key fingerprint.
type Contact struct {
	Name      string    `json:"name"`
	PublicKey KeyBundle `json:"public_key"`
	Address   string    `json:"address"`
	AddedAt   time.Time `json:"added_at"`
}

// ExchangeFingerprint returns the fingerprint peers are matched on.
func (c Contact) ExchangeFingerprint() string { return c.PublicKey.Exchange.Fingerprint }

// SigningFingerprint returns the fingerprint of the signing key, if known.
func (c Contact) SigningFingerprint() string { return c.PublicKey.Signing.Fingerprint }

// Message is one decrypted application message from a bound contact.
type Message struct {
	Sender     Contact   `json:"sender"`
	Text       string    `json:"message"`
	ReceivedAt time.Time `json:"received"`
}

// NewMessage decodes payload lossily: invalid UTF-8 sequences are replaced
// with U+FFFD. Binary payloads do not survive this boundary.
func NewMessage(sender Contact, payload []byte, at time.Time) Message {
	return Message{
		Sender:     sender,
		Text:       strings.ToValidUTF8(string(payload), "\uFFFD"),
		ReceivedAt: at,
	}
}

// TrustPolicy decides what happens when a peer's fingerprint is unknown.
type TrustPolicy string

const (
	// TrustReject fails the session with ErrUnknownSender.
	TrustReject TrustPolicy = "reject"
	// TrustOnFirstUse asks the operator and persists the peer on acceptance.
	TrustOnFirstUse TrustPolicy = "tofu"
)

// Valid reports whether p is a known policy.
func (p TrustPolicy) Valid() bool { return p == TrustReject || p == TrustOnFirstUse }

// DuplicatePolicy controls whether the contact registry accepts entries whose
// name or exchange fingerprint is already present.
type DuplicatePolicy string

const (
	DuplicatesAllow  DuplicatePolicy = "allow"
	DuplicatesReject DuplicatePolicy = "reject"
)

// Valid reports whether p is a known policy.
func (p DuplicatePolicy) Valid() bool { return p == DuplicatesAllow || p == DuplicatesReject }
