package handshake

import (
	"errors"
	"fmt"
	"io"

	"github.com/flynn/noise"

	"airoi/internal/crypto"
	"airoi/internal/domain"
	"airoi/internal/protocol/frame"
	"airoi/internal/util/memzero"
)

// CipherSuite is Noise_XX_25519_ChaChaPoly_BLAKE2s.
var CipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashBLAKE2s)

type state uint8

const (
	stateStart     state = iota
	stateMsg1            // responder: msg1 processed; initiator: msg1 sent
	stateMsg2            // responder: msg2 sent; initiator: msg2 processed
	stateMsg3            // msg3 processed (responder) or sent (initiator)
	stateTransport       // cipher states split
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateMsg1:
		return "msg1"
	case stateMsg2:
		return "msg2"
	case stateMsg3:
		return "msg3"
	case stateTransport:
		return "transport"
	default:
		return "failed"
	}
}

// handshake is the transient per-connection state.
type handshake struct {
	rw        io.ReadWriter
	hs        *noise.HandshakeState
	initiator bool
	state     state
	static    []byte // our copy of the private exchange key; wiped on exit
	send      *noise.CipherState
	recv      *noise.CipherState
}

func newHandshake(rw io.ReadWriter, local domain.KeyPair, initiator bool) (*handshake, error) {
	if len(local.Private.Exchange.Raw) != crypto.KeySize || len(local.Public.Exchange.Raw) != crypto.KeySize {
		return nil, domain.ProtocolError("start handshake", domain.ErrNoIdentity)
	}
	h := &handshake{
		rw:        rw,
		initiator: initiator,
		static:    append([]byte(nil), local.Private.Exchange.Raw...),
	}
	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite: CipherSuite,
		Pattern:     noise.HandshakeXX,
		Initiator:   initiator,
		StaticKeypair: noise.DHKey{
			Private: h.static,
			Public:  append([]byte(nil), local.Public.Exchange.Raw...),
		},
	})
	if err != nil {
		h.wipe()
		return nil, domain.ProtocolError("start handshake", err)
	}
	h.hs = hs
	return h, nil
}

// write produces the next handshake message and sends it as one frame.
func (h *handshake) write(next state) error {
	msg, cs1, cs2, err := h.hs.WriteMessage(nil, nil)
	if err != nil {
		return h.fail(domain.ProtocolError("write handshake "+next.String(), err))
	}
	if err := frame.Write(h.rw, msg); err != nil {
		return h.fail(err)
	}
	h.split(cs1, cs2)
	h.state = next
	return nil
}

// read consumes one frame and feeds it to the handshake state.
func (h *handshake) read(next state) error {
	op := "read handshake " + next.String()
	msg, err := frame.Read(h.rw)
	switch {
	case errors.Is(err, io.EOF):
		return h.fail(domain.IOError(op, io.ErrUnexpectedEOF))
	case errors.Is(err, frame.ErrNoData):
		return h.fail(domain.IOError(op, err))
	case err != nil:
		return h.fail(err)
	}

	payload, cs1, cs2, err := h.hs.ReadMessage(nil, msg)
	if err != nil {
		if errors.Is(err, noise.ErrShortMessage) {
			return h.fail(domain.ProtocolError(op, err))
		}
		return h.fail(domain.CryptoError(op, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)))
	}
	// handshake payloads carry nothing; anything a peer sends is dropped
	memzero.Zero(payload)
	h.split(cs1, cs2)
	h.state = next
	return nil
}

// split records the transport cipher states once the final message is
// processed. cs1 always encrypts initiator-to-responder traffic.
func (h *handshake) split(cs1, cs2 *noise.CipherState) {
	if cs1 == nil || cs2 == nil {
		return
	}
	if h.initiator {
		h.send, h.recv = cs1, cs2
	} else {
		h.send, h.recv = cs2, cs1
	}
}

// finish moves to transport mode and builds the Session.
func (h *handshake) finish() (*Session, error) {
	if h.state != stateMsg3 || h.send == nil || h.recv == nil {
		return nil, h.fail(domain.ProtocolError("finish handshake", fmt.Errorf("handshake ended in state %s", h.state)))
	}
	remote := h.hs.PeerStatic()
	if len(remote) != crypto.KeySize {
		return nil, h.fail(domain.ProtocolError("finish handshake", domain.ErrNoRemoteStatic))
	}
	h.state = stateTransport
	return &Session{
		send:         h.send,
		recv:         h.recv,
		remoteStatic: append([]byte(nil), remote...),
	}, nil
}

func (h *handshake) fail(err error) error {
	h.state = stateFailed
	h.send, h.recv = nil, nil
	h.hs = nil
	return err
}

func (h *handshake) wipe() {
	memzero.Zero(h.static)
	h.hs = nil
}

// Respond runs the responder side: read 1, write 2, read 3.
func Respond(rw io.ReadWriter, local domain.KeyPair) (*Session, error) {
	h, err := newHandshake(rw, local, false)
	if err != nil {
		return nil, err
	}
	defer h.wipe()

	if err := h.read(stateMsg1); err != nil {
		return nil, err
	}
	if err := h.write(stateMsg2); err != nil {
		return nil, err
	}
	if err := h.read(stateMsg3); err != nil {
		return nil, err
	}
	return h.finish()
}

// Initiate runs the initiator side: write 1, read 2, write 3.
func Initiate(rw io.ReadWriter, local domain.KeyPair) (*Session, error) {
	h, err := newHandshake(rw, local, true)
	if err != nil {
		return nil, err
	}
	defer h.wipe()

	if err := h.write(stateMsg1); err != nil {
		return nil, err
	}
	if err := h.read(stateMsg2); err != nil {
		return nil, err
	}
	if err := h.write(stateMsg3); err != nil {
		return nil, err
	}
	return h.finish()
}
