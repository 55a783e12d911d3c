package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "send <contact> <message...>",
		Short: "Connect to a contact and send one message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, ok, err := wire.Contact.Find(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no contact named %q", args[0])
			}
			if addr != "" {
				to.Address = addr
			}
			if to.Address == "" {
				return fmt.Errorf("contact %q has no address; use --addr", to.Name)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := wire.Client.SendTo(ctx, to, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Printf("Sent to %s.\n", to.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override the contact's address")
	return cmd
}
