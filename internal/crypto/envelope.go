package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"airoi/internal/domain"
	"airoi/internal/util/memzero"
)

const (
	// SaltBytes is the Argon2id salt length.
	SaltBytes = 16
	// NonceBytes is the XChaCha20-Poly1305 nonce length.
	NonceBytes = chacha20poly1305.NonceSizeX
)

// KDFParams are the Argon2id cost parameters. They are stored next to every
// ciphertext so that later loads reproduce the derivation even if the
// defaults change.
type KDFParams struct {
	MemoryKiB   uint32 `yaml:"memory_kib" json:"argon_m"`
	Iterations  uint32 `yaml:"iterations" json:"argon_t"`
	Parallelism uint8  `yaml:"parallelism" json:"argon_p"`
}

// DefaultKDFParams returns 32 MiB, 3 passes, 1 lane.
func DefaultKDFParams() KDFParams {
	return KDFParams{MemoryKiB: 32 * 1024, Iterations: 3, Parallelism: 1}
}

// Validate rejects parameters argon2 would panic on or that are too weak to
// be deliberate.
func (p KDFParams) Validate() error {
	switch {
	case p.Parallelism < 1:
		return fmt.Errorf("argon2 parallelism must be >= 1")
	case p.Iterations < 1:
		return fmt.Errorf("argon2 iterations must be >= 1")
	case p.MemoryKiB < 8*uint32(p.Parallelism):
		return fmt.Errorf("argon2 memory must be >= %d KiB", 8*uint32(p.Parallelism))
	}
	return nil
}

// Sealed is the output of Seal.
type Sealed struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
	Params     KDFParams
}

// DeriveKey runs Argon2id over passphrase and salt. The caller wipes the key.
func DeriveKey(passphrase, salt []byte, p KDFParams) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, domain.CryptoError("derive key", fmt.Errorf("%w: %v", domain.ErrKeyDerivation, err))
	}
	if len(salt) != SaltBytes {
		return nil, domain.CryptoError("derive key", fmt.Errorf("%w: salt must be %d bytes", domain.ErrKeyDerivation, SaltBytes))
	}
	return argon2.IDKey(passphrase, salt, p.Iterations, p.MemoryKiB, p.Parallelism, chacha20poly1305.KeySize), nil
}

// Seal encrypts plaintext under a key derived from passphrase with a fresh
// random salt and nonce.
func Seal(passphrase, plaintext []byte, p KDFParams) (Sealed, error) {
	return SealFrom(rand.Reader, passphrase, plaintext, p)
}

// SealFrom is Seal with an explicit randomness source.
func SealFrom(r io.Reader, passphrase, plaintext []byte, p KDFParams) (Sealed, error) {
	salt := make([]byte, SaltBytes)
	if _, err := io.ReadFull(r, salt); err != nil {
		return Sealed{}, domain.IOError("read random salt", err)
	}
	nonce := make([]byte, NonceBytes)
	if _, err := io.ReadFull(r, nonce); err != nil {
		return Sealed{}, domain.IOError("read random nonce", err)
	}

	key, err := DeriveKey(passphrase, salt, p)
	if err != nil {
		return Sealed{}, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Sealed{}, domain.CryptoError("seal", err)
	}
	return Sealed{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, nil),
		Params:     p,
	}, nil
}

// Open re-derives the key and decrypts. A wrong passphrase or a tampered
// record both yield ErrAuthentication; no partial plaintext is returned.
func Open(passphrase []byte, s Sealed) ([]byte, error) {
	if len(s.Nonce) != NonceBytes {
		return nil, domain.DecodeError("open", fmt.Errorf("nonce must be %d bytes, got %d", NonceBytes, len(s.Nonce)))
	}
	key, err := DeriveKey(passphrase, s.Salt, s.Params)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, domain.CryptoError("open", err)
	}
	pt, err := aead.Open(nil, s.Nonce, s.Ciphertext, nil)
	if err != nil {
		return nil, domain.CryptoError("open", domain.ErrAuthentication)
	}
	return pt, nil
}
