package identity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"airoi/internal/crypto"
	"airoi/internal/domain"
	"airoi/internal/services/identity"
	"airoi/internal/store"
)

type fixedSource string

func (f fixedSource) Passphrase(bool) ([]byte, error) { return []byte(f), nil }

func newService(t *testing.T, pass string) (*identity.Service, string) {
	t.Helper()
	keyring.MockInitWithError(errors.New("no vault in tests"))
	home := t.TempDir()
	ks := store.NewKeyStore(nil,
		store.NewVaultBackend("", ""),
		store.NewFileBackend(home, crypto.KDFParams{MemoryKiB: 64, Iterations: 1, Parallelism: 1},
			store.NewPassphraseCache(fixedSource(pass))),
	)
	return identity.New(ks), home
}

func TestGenerate_ThenDescribe(t *testing.T) {
	svc, _ := newService(t, "pw")

	sum, err := svc.Generate(false)
	require.NoError(t, err)
	require.NotEmpty(t, sum.ExchangeFingerprint)
	require.NotEmpty(t, sum.SigningKey)

	got, err := svc.Describe()
	require.NoError(t, err)
	require.Equal(t, sum.ExchangeFingerprint, got.ExchangeFingerprint)
	require.Equal(t, sum.SigningKey, got.SigningKey)
	require.Equal(t, sum.SigningFingerprint, got.SigningFingerprint)
	require.NotEqual(t, got.ExchangeFingerprint, got.SigningFingerprint)
	require.True(t, sum.CreatedAt.Equal(got.CreatedAt))
	require.False(t, got.CreatedAt.IsZero())

	// the advertised signing key converts to the advertised exchange fingerprint
	raw, err := crypto.DecodeKey(got.SigningKey)
	require.NoError(t, err)
	x, err := crypto.SigningToExchangePublic(raw)
	require.NoError(t, err)
	require.Equal(t, got.ExchangeFingerprint, crypto.Fingerprint(x))
}

func TestGenerate_RefusesOverwrite(t *testing.T) {
	svc, _ := newService(t, "pw")
	first, err := svc.Generate(false)
	require.NoError(t, err)

	_, err = svc.Generate(false)
	require.ErrorIs(t, err, identity.ErrIdentityExists)

	second, err := svc.Generate(true)
	require.NoError(t, err)
	require.NotEqual(t, first.ExchangeFingerprint, second.ExchangeFingerprint)
}

func TestDescribe_NoIdentity(t *testing.T) {
	svc, _ := newService(t, "pw")
	_, err := svc.Describe()
	require.ErrorIs(t, err, domain.ErrNoIdentity)
}

func TestCheckPassphrase(t *testing.T) {
	require.ErrorIs(t, identity.CheckPassphrase([]byte("short")), identity.ErrWeakPassphrase)
	require.ErrorIs(t, identity.CheckPassphrase([]byte("alllowercaseletters")), identity.ErrWeakPassphrase)
	require.NoError(t, identity.CheckPassphrase([]byte("Correct-Horse-9-Battery")))
}
