package contact_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"airoi/internal/crypto"
	"airoi/internal/domain"
	"airoi/internal/services/contact"
	"airoi/internal/store"
)

func TestAdd_DerivesExchangeFingerprint(t *testing.T) {
	peer, err := crypto.GenerateIdentity()
	require.NoError(t, err)
	peer.Wipe()

	svc := contact.New(store.NewContactFileStore(t.TempDir(), domain.DuplicatesAllow))
	c, err := svc.Add("bob", peer.Public.Signing.Encoded, "bob.onion")
	require.NoError(t, err)
	require.Equal(t, peer.Public.Exchange.Fingerprint, c.ExchangeFingerprint())
	require.Equal(t, peer.Public.Signing.Fingerprint, c.SigningFingerprint())

	found, ok, err := svc.Find("bob")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "bob.onion", found.Address)

	require.NoError(t, svc.Remove("bob"))
	_, ok, err = svc.Find("bob")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAdd_BadKey(t *testing.T) {
	svc := contact.New(store.NewContactFileStore(t.TempDir(), domain.DuplicatesAllow))

	_, err := svc.Add("bob", "not-base58-0OIl", "x")
	require.Equal(t, domain.KindDecode, domain.KindOf(err))

	_, err = svc.Add("  ", crypto.EncodeKey(make([]byte, 32)), "x")
	require.Equal(t, domain.KindDecode, domain.KindOf(err))

	all, err := svc.List()
	require.NoError(t, err)
	require.Empty(t, all)
}
