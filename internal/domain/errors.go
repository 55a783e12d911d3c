package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	// KindIO covers stream and file read/write failures.
	KindIO Kind = iota + 1
	// KindDecode covers malformed base58, base64 or structured documents.
	KindDecode
	// KindCrypto covers AEAD authentication, invalid points and KDF failures.
	KindCrypto
	// KindProtocol covers handshake and trust-decision failures, including a
	// contact registry refusing a duplicate under DuplicatesReject.
	KindProtocol
	// KindStorage covers credential-vault failures. These are recovered by
	// falling back to the file backend and only surface when every backend
	// fails.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindCrypto:
		return "crypto"
	case KindProtocol:
		return "protocol"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

var (
	ErrAuthentication   = errors.New("authentication failed")
	ErrInvalidPoint     = errors.New("invalid curve point")
	ErrKeyDerivation    = errors.New("key derivation failed")
	ErrFrameTooLarge    = errors.New("frame exceeds 65535 bytes")
	ErrNoRemoteStatic   = errors.New("handshake did not reveal remote static key")
	ErrUnknownSender    = errors.New("unknown sender")
	ErrSenderNotTrusted = errors.New("sender not trusted")
	ErrPeerMismatch     = errors.New("peer key does not match contact")
	ErrVaultUnavailable = errors.New("credential vault unavailable")
	ErrDuplicateContact = errors.New("duplicate contact")
	ErrNoIdentity       = errors.New("no local identity")
)

// Error is the single error type returned across component boundaries.
type Error struct {
	Kind Kind
	// Op names the failing operation, e.g. "read frame" or "load keystore".
	Op string
	// Fingerprint is set for trust failures: the fingerprint that was not
	// found or not trusted.
	Fingerprint string
	Err         error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Op
	if e.Fingerprint != "" {
		msg += " [" + e.Fingerprint + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) error {
	// Already classified errors pass through untouched so that each failure
	// is converted exactly once.
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// IOError wraps a stream or file failure.
func IOError(op string, err error) error { return newError(KindIO, op, err) }

// DecodeError wraps a parse failure.
func DecodeError(op string, err error) error { return newError(KindDecode, op, err) }

// CryptoError wraps a cryptographic failure.
func CryptoError(op string, err error) error { return newError(KindCrypto, op, err) }

// ProtocolError wraps a handshake failure.
func ProtocolError(op string, err error) error { return newError(KindProtocol, op, err) }

// StorageError wraps a vault failure.
func StorageError(op string, err error) error { return newError(KindStorage, op, err) }

// UnknownSender is returned under the reject policy.
func UnknownSender(fingerprint string) error {
	return &Error{Kind: KindProtocol, Op: "resolve sender", Fingerprint: fingerprint, Err: ErrUnknownSender}
}

// SenderNotTrusted is returned when the operator declines a TOFU prompt.
func SenderNotTrusted(fingerprint string) error {
	return &Error{Kind: KindProtocol, Op: "resolve sender", Fingerprint: fingerprint, Err: ErrSenderNotTrusted}
}

// PeerMismatch is returned by an initiator whose responder presented a key
// other than the contact's.
func PeerMismatch(want, got string) error {
	return &Error{
		Kind:        KindProtocol,
		Op:          "verify responder",
		Fingerprint: got,
		Err:         fmt.Errorf("%w: expected %s", ErrPeerMismatch, want),
	}
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// FingerprintOf returns the fingerprint carried by err, if any.
func FingerprintOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Fingerprint
	}
	return ""
}
