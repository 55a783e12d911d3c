package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"airoi/internal/domain"
)

// Fingerprint returns the base58 SHA-256 digest of a raw key. No truncation.
func Fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return base58.Encode(sum[:])
}

// EncodeKey returns the base58 text form of a raw key.
func EncodeKey(raw []byte) string { return base58.Encode(raw) }

// DecodeKey parses a base58 key and checks that it is 32 bytes long.
func DecodeKey(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, domain.DecodeError("decode key", err)
	}
	if len(raw) != KeySize {
		return nil, domain.DecodeError("decode key", fmt.Errorf("want %d bytes, got %d", KeySize, len(raw)))
	}
	return raw, nil
}

// NewPublicMaterial copies raw and fills in its encodings.
func NewPublicMaterial(raw []byte) domain.KeyMaterial {
	cp := append([]byte(nil), raw...)
	return domain.KeyMaterial{
		Raw:         cp,
		Encoded:     EncodeKey(cp),
		Fingerprint: Fingerprint(cp),
	}
}

func newSecretMaterial(raw []byte) domain.KeyMaterial {
	return domain.KeyMaterial{Raw: append([]byte(nil), raw...)}
}
