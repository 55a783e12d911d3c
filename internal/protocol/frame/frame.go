package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"airoi/internal/domain"
)

const (
	// HeaderSize is the length prefix size.
	HeaderSize = 2
	// MaxPayload is the largest payload a frame can carry.
	MaxPayload = 1<<16 - 1
)

// ErrNoData reports that a read deadline expired before any byte of the
// next frame arrived. The stream is still usable and the read can be retried.
var ErrNoData = errors.New("frame: no data available")

// Write sends payload as a single frame with one Write call, so that
// concurrent writers on the same stream cannot interleave a header with a
// foreign payload.
func Write(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayload {
		return domain.ProtocolError("write frame", fmt.Errorf("%w: %d bytes", domain.ErrFrameTooLarge, len(payload)))
	}
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint16(buf, uint16(len(payload)))
	copy(buf[HeaderSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return domain.IOError("write frame", err)
	}
	return nil
}

// Read blocks until one complete frame has arrived and returns its payload.
//
// It returns io.EOF, unwrapped, when the stream closes cleanly before the
// first header byte, and ErrNoData when a deadline fires at that same point.
// A stream that ends or times out inside a frame is an I/O fault: partial
// frames are never returned.
func Read(r io.Reader) ([]byte, error) {
	var hdr [HeaderSize]byte
	n, err := io.ReadFull(r, hdr[:])
	switch {
	case err == nil:
	case n == 0 && errors.Is(err, io.EOF):
		return nil, io.EOF
	case n == 0 && isTimeout(err):
		return nil, ErrNoData
	default:
		return nil, domain.IOError("read frame header", err)
	}

	payload := make([]byte, binary.BigEndian.Uint16(hdr[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, domain.IOError("read frame payload", err)
	}
	return payload, nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
