package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"airoi/internal/crypto"
	"airoi/internal/domain"
	"airoi/internal/store"
)

func newContact(t *testing.T, name string) domain.Contact {
	t.Helper()
	kp := newIdentity(t)
	kp.Wipe()
	return domain.Contact{
		Name:      name,
		PublicKey: kp.Public,
		Address:   name + ".example:4444",
		AddedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestContactStore_EmptyWhenMissing(t *testing.T) {
	s := store.NewContactFileStore(t.TempDir(), domain.DuplicatesAllow)
	got, err := s.List()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestContactStore_AddRemoveOrder(t *testing.T) {
	home := t.TempDir()
	s := store.NewContactFileStore(home, domain.DuplicatesAllow)

	a, b, a2 := newContact(t, "alice"), newContact(t, "bob"), newContact(t, "alice")
	for _, c := range []domain.Contact{a, b, a2} {
		require.NoError(t, s.Add(c))
	}

	got, err := s.List()
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, a.ExchangeFingerprint(), got[0].ExchangeFingerprint())
	require.Equal(t, crypto.Fingerprint(got[1].PublicKey.Exchange.Raw), b.ExchangeFingerprint())
	require.Equal(t, b.PublicKey.Signing.Encoded, got[1].PublicKey.Signing.Encoded)

	// only the first "alice" goes
	require.NoError(t, s.Remove("alice"))
	got, err = s.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "bob", got[0].Name)
	require.Equal(t, a2.ExchangeFingerprint(), got[1].ExchangeFingerprint())

	require.NoError(t, s.Remove("carol"))
	got, err = s.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestContactStore_RejectDuplicates(t *testing.T) {
	s := store.NewContactFileStore(t.TempDir(), domain.DuplicatesReject)
	a := newContact(t, "alice")
	require.NoError(t, s.Add(a))

	err := s.Add(newContact(t, "alice"))
	require.ErrorIs(t, err, domain.ErrDuplicateContact)
	require.Equal(t, domain.KindProtocol, domain.KindOf(err))

	same := a
	same.Name = "alias"
	require.ErrorIs(t, s.Add(same), domain.ErrDuplicateContact)

	require.NoError(t, s.Add(newContact(t, "bob")))
}

func TestContactStore_Corrupt(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "contacts.json"), []byte("[{"), 0o600))
	_, err := store.NewContactFileStore(home, domain.DuplicatesAllow).List()
	require.Equal(t, domain.KindDecode, domain.KindOf(err))
}
