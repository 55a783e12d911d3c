package message

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"airoi/internal/domain"
	"airoi/internal/protocol/frame"
	"airoi/internal/protocol/handshake"
)

// RetryDelay is the pause after a read that produced no data.
const RetryDelay = 50 * time.Millisecond

// receive reads frames from conn until the peer closes, a read or decrypt
// fails, or ctx ends. poll, when positive, is the read deadline applied
// before each frame; its expiry is not an error.
func receive(ctx context.Context, conn net.Conn, sess *handshake.Session, sender domain.Contact, poll time.Duration, out chan<- domain.Message) error {
	for {
		if poll > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(poll)); err != nil {
				return domain.IOError("set read deadline", err)
			}
		}
		ct, err := frame.Read(conn)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, frame.ErrNoData):
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(RetryDelay):
			}
			continue
		case err != nil:
			return err
		}

		pt, err := sess.Decrypt(ct)
		if err != nil {
			return err
		}
		msg := domain.NewMessage(sender, pt, time.Now().UTC())
		select {
		case out <- msg:
		case <-ctx.Done():
			return nil
		}
	}
}
