package crypto

import (
	"golang.org/x/crypto/curve25519"

	"airoi/internal/domain"
)

// KeySize is the size of every raw key handled here.
const KeySize = 32

// ExchangePublic multiplies the X25519 base point by priv.
func ExchangePublic(priv []byte) ([]byte, error) {
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, domain.CryptoError("x25519 base mult", err)
	}
	return pub, nil
}

// clamp applies the X25519 scalar mask (RFC 7748).
func clamp(k []byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
