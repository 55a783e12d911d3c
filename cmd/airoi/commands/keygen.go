package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"airoi/internal/services/identity"
)

func keygenCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate identity keys and store them securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := wire.Identity.Generate(force)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Identity created.")
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing identity")
	return cmd
}

func printSummary(w io.Writer, sum identity.Summary) {
	fmt.Fprintf(w, "Fingerprint:         %s\n", sum.ExchangeFingerprint)
	fmt.Fprintf(w, "Public key:          %s\n", sum.SigningKey)
	fmt.Fprintf(w, "Signing fingerprint: %s\n", sum.SigningFingerprint)
	fmt.Fprintf(w, "Created:             %s\n", sum.CreatedAt.Local().Format(time.RFC3339))
}
