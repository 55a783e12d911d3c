package message

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"airoi/internal/domain"
	"airoi/internal/protocol/handshake"
	"airoi/internal/services/trust"
)

// DefaultListenAddr is used when ServerConfig.Addr is empty.
const DefaultListenAddr = "0.0.0.0:4444"

// KeySource yields the local identity.
type KeySource interface {
	FetchLocalKeyPair() (domain.KeyPair, error)
}

// ServerConfig configures a Server.
type ServerConfig struct {
	Addr     string
	Policy   domain.TrustPolicy
	Keys     KeySource
	Contacts domain.ContactStore
	// Prompter is consulted under TrustOnFirstUse.
	Prompter trust.ContactPrompter
	// ReadPoll, if positive, bounds each frame read so that an idle
	// connection periodically wakes up. Zero blocks indefinitely.
	ReadPoll time.Duration
	Logger   *zap.Logger
}

// Server is the responder side of airoi.
type Server struct {
	cfg ServerConfig
	log *zap.Logger
}

// NewServer returns a Server. Nothing is bound until Serve or
// ListenAndServe is called.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultListenAddr
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, log: log.Named("server")}
}

// ListenAndServe binds the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, out chan<- domain.Message) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return domain.IOError("listen "+s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln, out)
}

// Serve accepts connections on ln until ctx is cancelled, handling each on
// its own goroutine. The identity and a snapshot of the contact list are
// loaded once before the first Accept. Per-connection failures are logged
// and never stop the loop. Serve closes ln and waits for in-flight
// connections before returning.
func (s *Server) Serve(ctx context.Context, ln net.Listener, out chan<- domain.Message) error {
	defer ln.Close()

	kp, err := s.cfg.Keys.FetchLocalKeyPair()
	if err != nil {
		return err
	}
	defer kp.Wipe()

	snapshot, err := s.cfg.Contacts.List()
	if err != nil {
		return err
	}
	resolver := trust.NewResolver(s.cfg.Policy, snapshot, s.cfg.Contacts, s.cfg.Prompter, s.log)

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("fingerprint", kp.Public.Exchange.Fingerprint),
		zap.Int("contacts", len(snapshot)),
	)

	var wg sync.WaitGroup
	defer wg.Wait()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = nextBackoff(backoff)
				s.log.Warn("accept failed; retrying", zap.Duration("in", backoff), zap.Error(err))
				time.Sleep(backoff)
				continue
			}
			return domain.IOError("accept", err)
		}
		backoff = 0

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(ctx, conn, kp, resolver, out)
		}()
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

// handle runs one connection to completion.
func (s *Server) handle(ctx context.Context, conn net.Conn, kp domain.KeyPair, resolver *trust.Resolver, out chan<- domain.Message) {
	remote := conn.RemoteAddr().String()
	log := s.log.With(zap.String("remote", remote))

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	sess, err := handshake.Respond(conn, kp)
	if err != nil {
		log.Warn("handshake failed", zap.Error(err))
		return
	}
	defer sess.Close()

	fp := sess.RemoteFingerprint()
	log = log.With(zap.String("fingerprint", fp))

	sender, err := resolver.Resolve(sess.RemoteStatic(), remote)
	if err != nil {
		log.Warn("peer rejected", zap.Error(err))
		return
	}
	log.Debug("session established", zap.String("contact", sender.Name))

	if err := receive(ctx, conn, sess, sender, s.cfg.ReadPoll, out); err != nil && ctx.Err() == nil {
		log.Warn("session terminated", zap.Error(err))
		return
	}
	log.Debug("session closed")
}
