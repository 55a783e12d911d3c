package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"airoi/internal/app"
	"airoi/internal/domain"
)

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := app.LoadConfig(home, "", nil)
	require.NoError(t, err)
	require.Equal(t, app.DefaultConfig(home), cfg)
	require.Equal(t, "0.0.0.0:4444", cfg.ListenAddr)
	require.Equal(t, domain.TrustReject, cfg.TrustPolicy)
	require.Equal(t, 4444, cfg.DefaultPort)
	require.EqualValues(t, 32768, cfg.KDF.MemoryKiB)
}

func TestLoadConfig_Overrides(t *testing.T) {
	home := t.TempDir()
	doc := `
listen_addr: 127.0.0.1:5555
trust_policy: tofu
duplicate_contacts: reject
keyring:
  disabled: true
kdf:
  memory_kib: 65536
socks_proxy: 127.0.0.1:9050
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(home, app.ConfigFilename), []byte(doc), 0o600))

	var warn bytes.Buffer
	cfg, err := app.LoadConfig(home, "", &warn)
	require.NoError(t, err)
	require.Empty(t, warn.String())

	require.Equal(t, "127.0.0.1:5555", cfg.ListenAddr)
	require.Equal(t, domain.TrustOnFirstUse, cfg.TrustPolicy)
	require.Equal(t, domain.DuplicatesReject, cfg.DuplicateContacts)
	require.True(t, cfg.Keyring.Disabled)
	require.Equal(t, "airoi", cfg.Keyring.Service, "unset nested fields keep their defaults")
	require.EqualValues(t, 65536, cfg.KDF.MemoryKiB)
	require.EqualValues(t, 3, cfg.KDF.Iterations)
	require.Equal(t, "127.0.0.1:9050", cfg.SOCKSProxy)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, home, cfg.Home)
}

func TestLoadConfig_Invalid(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "custom.yaml")

	require.NoError(t, os.WriteFile(path, []byte("trust_policy: maybe\n"), 0o600))
	_, err := app.LoadConfig(home, path, nil)
	require.ErrorContains(t, err, "trust_policy")

	require.NoError(t, os.WriteFile(path, []byte("kdf: {parallelism: 0}\n"), 0o600))
	_, err = app.LoadConfig(home, path, nil)
	require.ErrorContains(t, err, "kdf")

	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [\n"), 0o600))
	_, err = app.LoadConfig(home, path, nil)
	require.Error(t, err)
}

func TestLoadConfig_WarnsOnLoosePermissions(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, app.ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("log: {level: warn}\n"), 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	var warn bytes.Buffer
	_, err := app.LoadConfig(home, "", &warn)
	require.NoError(t, err)
	require.Contains(t, warn.String(), "0644")
}

func TestNewWire(t *testing.T) {
	cfg := app.DefaultConfig(t.TempDir())
	cfg.Keyring.Disabled = true
	w, err := app.NewWire(cfg, zaptest.NewLogger(t), nil)
	require.NoError(t, err)
	defer w.Close()

	contacts, err := w.Contact.List()
	require.NoError(t, err)
	require.Empty(t, contacts)

	// no prompter: loading the identity fails instead of blocking
	_, err = w.Identity.Describe()
	require.Error(t, err)
	require.NotNil(t, w.Server(""))
}
