package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"io"
	"time"

	"filippo.io/edwards25519"

	"airoi/internal/domain"
	"airoi/internal/util/memzero"
)

// GenerateIdentity draws a fresh seed from the OS random source and derives
// the full key pair from it.
func GenerateIdentity() (domain.KeyPair, error) {
	return GenerateIdentityFrom(rand.Reader)
}

// GenerateIdentityFrom is GenerateIdentity with an explicit entropy source.
func GenerateIdentityFrom(r io.Reader) (domain.KeyPair, error) {
	seed, err := newSeed(r)
	if err != nil {
		return domain.KeyPair{}, err
	}
	defer memzero.Zero(seed)
	return IdentityFromSeed(seed, time.Now().UTC())
}

// IdentityFromSeed derives the signing and exchange pairs from a 32-byte
// Ed25519 seed.
func IdentityFromSeed(seed []byte, createdAt time.Time) (domain.KeyPair, error) {
	edPub, err := signingPublic(seed)
	if err != nil {
		return domain.KeyPair{}, err
	}
	xPriv, err := ExchangePrivateFromSeed(seed)
	if err != nil {
		return domain.KeyPair{}, err
	}
	defer memzero.Zero(xPriv)

	xPub, err := ExchangePublic(xPriv)
	if err != nil {
		return domain.KeyPair{}, err
	}

	return domain.KeyPair{
		Private: domain.KeyBundle{
			Signing:  newSecretMaterial(seed),
			Exchange: newSecretMaterial(xPriv),
		},
		Public: domain.KeyBundle{
			Signing:  NewPublicMaterial(edPub),
			Exchange: NewPublicMaterial(xPub),
		},
		CreatedAt: createdAt,
	}, nil
}

// ExchangePrivateFromSeed hashes the seed with SHA-512, keeps the first 32
// bytes and clamps them into a valid X25519 scalar.
func ExchangePrivateFromSeed(seed []byte) ([]byte, error) {
	if len(seed) != KeySize {
		return nil, domain.DecodeError("exchange key from seed", fmt.Errorf("want %d bytes, got %d", KeySize, len(seed)))
	}
	h := sha512.Sum512(seed)
	defer memzero.Zero(h[:])

	out := make([]byte, KeySize)
	copy(out, h[:KeySize])
	clamp(out)
	return out, nil
}

// SigningToExchangePublic maps an Ed25519 public key to the Montgomery
// u-coordinate used as its X25519 public key.
func SigningToExchangePublic(signingPublic []byte) ([]byte, error) {
	if len(signingPublic) != KeySize {
		return nil, domain.DecodeError("signing key to exchange key", fmt.Errorf("want %d bytes, got %d", KeySize, len(signingPublic)))
	}
	p, err := new(edwards25519.Point).SetBytes(signingPublic)
	if err != nil {
		return nil, domain.CryptoError("signing key to exchange key", fmt.Errorf("%w: %v", domain.ErrInvalidPoint, err))
	}
	return p.BytesMontgomery(), nil
}

// PublicBundleFromSigning builds the public bundle a contact is stored
// with, given only the peer's signing key.
func PublicBundleFromSigning(signingPublic []byte) (domain.KeyBundle, error) {
	xPub, err := SigningToExchangePublic(signingPublic)
	if err != nil {
		return domain.KeyBundle{}, err
	}
	return domain.KeyBundle{
		Signing:  NewPublicMaterial(signingPublic),
		Exchange: NewPublicMaterial(xPub),
	}, nil
}
