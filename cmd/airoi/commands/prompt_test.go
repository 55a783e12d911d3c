package commands

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"airoi/internal/services/identity"
)

func pipeWith(t *testing.T, input string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestPrompter_ConfirmContact(t *testing.T) {
	var out bytes.Buffer
	p := newTerminalPrompter(pipeWith(t, "y\ncarol\nn\n"), &out, "")

	name, ok, err := p.ConfirmContact("FP", "1.2.3.4:5")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "carol", name)
	require.Contains(t, out.String(), "FP")

	_, ok, err = p.ConfirmContact("FP2", "x")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPrompter_NewPassphrase(t *testing.T) {
	strong := "Correct-Horse-9-Battery"
	p := newTerminalPrompter(pipeWith(t, strong+"\n"+strong+"\n"), &bytes.Buffer{}, "")
	got, err := p.Passphrase(true)
	require.NoError(t, err)
	require.Equal(t, strong, string(got))

	p = newTerminalPrompter(pipeWith(t, strong+"\nsomething-else\n"), &bytes.Buffer{}, "")
	_, err = p.Passphrase(true)
	require.ErrorContains(t, err, "do not match")

	p = newTerminalPrompter(pipeWith(t, "weak\n"), &bytes.Buffer{}, "")
	_, err = p.Passphrase(true)
	require.ErrorIs(t, err, identity.ErrWeakPassphrase)
}

func TestPrompter_FixedPassphrase(t *testing.T) {
	p := newTerminalPrompter(pipeWith(t, ""), &bytes.Buffer{}, "anything")
	got, err := p.Passphrase(false)
	require.NoError(t, err)
	require.Equal(t, "anything", string(got))

	// the fixed value is returned as a copy the caller may wipe
	got[0] = 0
	again, err := p.Passphrase(false)
	require.NoError(t, err)
	require.Equal(t, "anything", string(again))
}
