package commands

import (
	"github.com/spf13/cobra"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print identity fingerprint and the public key to share with peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := wire.Identity.Describe()
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}
