package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage trusted contacts",
	}
	cmd.AddCommand(contactsAddCmd(), contactsRemoveCmd(), contactsListCmd())
	return cmd
}

func contactsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <public-key> <address>",
		Short: "Trust a peer by its base58 public key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Contact.Add(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", c.Name, c.ExchangeFingerprint())
			return nil
		},
	}
}

func contactsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Forget the first contact with this name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.Contact.Remove(args[0])
		},
	}
}

func contactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := wire.Contact.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFINGERPRINT\tADDRESS\tADDED")
			for _, c := range all {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.ExchangeFingerprint(), c.Address, c.AddedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}
