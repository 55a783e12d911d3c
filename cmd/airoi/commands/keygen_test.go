package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"airoi/internal/services/identity"
)

func TestPrintSummary(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	printSummary(&out, identity.Summary{
		ExchangeFingerprint: "XFP",
		SigningKey:          "SIGKEY",
		SigningFingerprint:  "SFP",
		CreatedAt:           created,
	})

	text := out.String()
	require.Contains(t, text, "Fingerprint:         XFP\n")
	require.Contains(t, text, "Public key:          SIGKEY\n")
	require.Contains(t, text, "Signing fingerprint: SFP\n")
	require.Contains(t, text, created.Local().Format(time.RFC3339))
}
