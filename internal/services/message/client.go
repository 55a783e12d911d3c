package message

import (
	"context"
	"net"

	"go.uber.org/zap"

	"airoi/internal/crypto"
	"airoi/internal/domain"
	"airoi/internal/protocol/frame"
	"airoi/internal/protocol/handshake"
)

// Dialer opens the byte stream to a contact. It is satisfied by
// dialer.Dialer and by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client is the initiator side of airoi.
type Client struct {
	keys   KeySource
	dialer Dialer
	log    *zap.Logger
}

// NewClient returns a Client that loads the identity from keys and opens
// streams through d.
func NewClient(keys KeySource, d Dialer, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{keys: keys, dialer: d, log: log.Named("client")}
}

// SendTo dials to.Address and sends text.
func (c *Client) SendTo(ctx context.Context, to domain.Contact, text string) error {
	conn, err := c.dialer.DialContext(ctx, "tcp", to.Address)
	if err != nil {
		return domain.IOError("dial "+to.Address, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	return c.Send(conn, to, text)
}

// Send runs the initiator handshake over conn and writes one encrypted
// message. When to carries an exchange key, the responder must present
// exactly that key or the send is aborted before anything is encrypted.
func (c *Client) Send(conn net.Conn, to domain.Contact, text string) error {
	kp, err := c.keys.FetchLocalKeyPair()
	if err != nil {
		return err
	}
	defer kp.Wipe()

	sess, err := handshake.Initiate(conn, kp)
	if err != nil {
		return err
	}
	defer sess.Close()

	got := sess.RemoteFingerprint()
	if raw := to.PublicKey.Exchange.Raw; len(raw) > 0 {
		if want := crypto.Fingerprint(raw); want != got {
			return domain.PeerMismatch(want, got)
		}
	}

	ct, err := sess.Encrypt([]byte(text))
	if err != nil {
		return err
	}
	if err := frame.Write(conn, ct); err != nil {
		return err
	}
	c.log.Debug("message sent", zap.String("contact", to.Name), zap.String("fingerprint", got), zap.Int("bytes", len(text)))
	return nil
}
