package crypto

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"airoi/internal/domain"
	"airoi/internal/util/memzero"
)

// newSeed draws an Ed25519 seed from r.
func newSeed(r io.Reader) ([]byte, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, domain.IOError("read random seed", err)
	}
	return seed, nil
}

// signingPublic returns the Ed25519 verifying key for seed.
func signingPublic(seed []byte) ([]byte, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, domain.DecodeError("ed25519 seed", fmt.Errorf("want %d bytes, got %d", ed25519.SeedSize, len(seed)))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := append([]byte(nil), priv.Public().(ed25519.PublicKey)...)
	memzero.Zero(priv)
	return pub, nil
}
