package handshake

import (
	"fmt"

	"github.com/flynn/noise"

	"airoi/internal/crypto"
	"airoi/internal/domain"
)

// MaxPlaintext is the largest application message that fits in one frame
// after the 16-byte Poly1305 tag.
const MaxPlaintext = 65535 - 16

// Session is a completed handshake in transport mode. It is not safe for
// concurrent use; each direction keeps its own nonce counter.
type Session struct {
	send         *noise.CipherState
	recv         *noise.CipherState
	remoteStatic []byte
}

// Encrypt seals one application message for the peer.
func (s *Session) Encrypt(plaintext []byte) ([]byte, error) {
	if s.send == nil {
		return nil, domain.ProtocolError("encrypt", fmt.Errorf("session closed"))
	}
	if len(plaintext) > MaxPlaintext {
		return nil, domain.ProtocolError("encrypt", fmt.Errorf("%w: %d-byte plaintext", domain.ErrFrameTooLarge, len(plaintext)))
	}
	ct, err := s.send.Encrypt(nil, nil, plaintext)
	if err != nil {
		return nil, domain.CryptoError("encrypt", err)
	}
	return ct, nil
}

// Decrypt opens one message from the peer. Authentication failure is always
// an error; no plaintext is returned with it.
func (s *Session) Decrypt(ciphertext []byte) ([]byte, error) {
	if s.recv == nil {
		return nil, domain.ProtocolError("decrypt", fmt.Errorf("session closed"))
	}
	pt, err := s.recv.Decrypt(nil, nil, ciphertext)
	if err != nil {
		return nil, domain.CryptoError("decrypt", fmt.Errorf("%w: %v", domain.ErrAuthentication, err))
	}
	return pt, nil
}

// RemoteStatic returns a copy of the peer's long-term X25519 public key.
func (s *Session) RemoteStatic() []byte { return append([]byte(nil), s.remoteStatic...) }

// RemoteFingerprint is the fingerprint contacts are matched on.
func (s *Session) RemoteFingerprint() string { return crypto.Fingerprint(s.remoteStatic) }

// Close drops both cipher states. The Noise package does not expose its
// key buffers, so they are left to the garbage collector.
func (s *Session) Close() {
	s.send, s.recv = nil, nil
}
