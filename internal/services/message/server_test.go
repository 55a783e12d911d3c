package message_test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"airoi/internal/crypto"
	"airoi/internal/domain"
	"airoi/internal/services/contact"
	"airoi/internal/services/message"
	"airoi/internal/store"
)

// memKeys hands out a fresh copy on every fetch; callers wipe what they get.
type memKeys struct{ kp domain.KeyPair }

func (m memKeys) FetchLocalKeyPair() (domain.KeyPair, error) { return m.kp.Clone(), nil }

type acceptAll struct {
	name  string
	calls *atomic.Int32
}

func (a acceptAll) ConfirmContact(string, string) (string, bool, error) {
	if a.calls != nil {
		a.calls.Add(1)
	}
	return a.name, true, nil
}

type fixture struct {
	server   domain.KeyPair
	sender   domain.KeyPair
	contacts *store.ContactFileStore
	addr     string
	out      chan domain.Message
	logs     *observer.ObservedLogs
}

func identity(t *testing.T) domain.KeyPair {
	t.Helper()
	kp, err := crypto.GenerateIdentity()
	require.NoError(t, err)
	return kp
}

// startServer runs a Server on a loopback port until the test ends. known
// contacts are written before the server snapshots them.
func startServer(t *testing.T, policy domain.TrustPolicy, prompter acceptAll, known ...domain.Contact) *fixture {
	t.Helper()
	f := &fixture{
		server:   identity(t),
		sender:   identity(t),
		contacts: store.NewContactFileStore(t.TempDir(), domain.DuplicatesAllow),
		out:      make(chan domain.Message, 8),
	}
	for _, c := range known {
		require.NoError(t, f.contacts.Add(c))
	}

	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs
	log := zap.New(zapcore.NewTee(core, zaptest.NewLogger(t).Core()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f.addr = ln.Addr().String()

	srv := message.NewServer(message.ServerConfig{
		Policy:   policy,
		Keys:     memKeys{f.server},
		Contacts: f.contacts,
		Prompter: prompter,
		Logger:   log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln, f.out) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return f
}

func (f *fixture) serverContact(t *testing.T) domain.Contact {
	t.Helper()
	c, err := contact.NewContact("server", f.server.Public.Signing.Raw, f.addr, time.Now())
	require.NoError(t, err)
	return c
}

func (f *fixture) send(t *testing.T, to domain.Contact, text string) error {
	t.Helper()
	cl := message.NewClient(memKeys{f.sender}, &net.Dialer{}, zaptest.NewLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return cl.SendTo(ctx, to, text)
}

func TestServer_KnownSenderDelivered(t *testing.T) {
	sender := identity(t)
	bob, err := contact.NewContact("bob", sender.Public.Signing.Raw, "", time.Now())
	require.NoError(t, err)

	f := startServer(t, domain.TrustReject, acceptAll{}, bob)
	f.sender = sender

	require.NoError(t, f.send(t, f.serverContact(t), "hello"))

	select {
	case m := <-f.out:
		require.Equal(t, "bob", m.Sender.Name)
		require.Equal(t, "hello", m.Text)
		require.Equal(t, sender.Public.Exchange.Fingerprint, m.Sender.ExchangeFingerprint())
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestServer_RejectUnknownSender(t *testing.T) {
	f := startServer(t, domain.TrustReject, acceptAll{})

	// the client may or may not see the rejection depending on timing
	_ = f.send(t, f.serverContact(t), "hello")

	require.Eventually(t, func() bool {
		return f.logs.FilterMessage("peer rejected").Len() == 1
	}, 5*time.Second, 10*time.Millisecond)

	entry := f.logs.FilterMessage("peer rejected").All()[0]
	require.Equal(t, f.sender.Public.Exchange.Fingerprint, entry.ContextMap()["fingerprint"])

	select {
	case m := <-f.out:
		t.Fatalf("unexpected delivery: %+v", m)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestServer_TOFUAcceptsAndPersists(t *testing.T) {
	f := startServer(t, domain.TrustOnFirstUse, acceptAll{name: "carol"})
	require.NoError(t, f.send(t, f.serverContact(t), "first"))

	select {
	case m := <-f.out:
		require.Equal(t, "carol", m.Sender.Name)
		require.Equal(t, "first", m.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}

	saved, err := f.contacts.List()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Equal(t, f.sender.Public.Exchange.Fingerprint, saved[0].ExchangeFingerprint())
}

func TestServer_TOFUPeerPromptedOncePerRun(t *testing.T) {
	var calls atomic.Int32
	f := startServer(t, domain.TrustOnFirstUse, acceptAll{name: "carol", calls: &calls})

	for _, text := range []string{"first", "second"} {
		require.NoError(t, f.send(t, f.serverContact(t), text))
		select {
		case m := <-f.out:
			require.Equal(t, "carol", m.Sender.Name)
			require.Equal(t, text, m.Text)
		case <-time.After(5 * time.Second):
			t.Fatal("no message delivered")
		}
	}

	require.EqualValues(t, 1, calls.Load())
	saved, err := f.contacts.List()
	require.NoError(t, err)
	require.Len(t, saved, 1)
}

func TestClient_PeerMismatch(t *testing.T) {
	f := startServer(t, domain.TrustOnFirstUse, acceptAll{name: "carol"})

	wrong := f.serverContact(t)
	other := identity(t)
	wrong.PublicKey.Exchange = crypto.NewPublicMaterial(other.Public.Exchange.Raw)

	err := f.send(t, wrong, "hello")
	require.ErrorIs(t, err, domain.ErrPeerMismatch)
	require.Equal(t, f.server.Public.Exchange.Fingerprint, domain.FingerprintOf(err))

	select {
	case m := <-f.out:
		t.Fatalf("unexpected delivery: %+v", m)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestServer_OneBadPeerDoesNotStopTheLoop(t *testing.T) {
	sender := identity(t)
	bob, err := contact.NewContact("bob", sender.Public.Signing.Raw, "", time.Now())
	require.NoError(t, err)
	f := startServer(t, domain.TrustReject, acceptAll{}, bob)
	f.sender = sender

	junk, err := net.Dial("tcp", f.addr)
	require.NoError(t, err)
	_, _ = junk.Write([]byte{0x00, 0x03, 1, 2, 3})
	_ = junk.Close()

	require.NoError(t, f.send(t, f.serverContact(t), "still here"))
	select {
	case m := <-f.out:
		require.Equal(t, "still here", m.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
}
