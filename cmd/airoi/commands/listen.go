package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"airoi/internal/domain"
)

func listenCmd() *cobra.Command {
	var addr, policy string
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Accept connections and print incoming messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if policy != "" {
				p := domain.TrustPolicy(policy)
				if !p.Valid() {
					return fmt.Errorf("--trust %q: want reject or tofu", policy)
				}
				wire.Config.TrustPolicy = p
			}

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			out := make(chan domain.Message)
			errc := make(chan error, 1)
			go func() {
				errc <- wire.Server(addr).ListenAndServe(ctx, out)
				close(out)
			}()

			for m := range out {
				fmt.Printf("[%s] %s: %s\n", m.ReceivedAt.Local().Format(time.TimeOnly), m.Sender.Name, m.Text)
			}
			err := <-errc
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 0.0.0.0:4444)")
	cmd.Flags().StringVar(&policy, "trust", "", "unknown peers: reject or tofu (default from config)")
	return cmd
}

// interruptContext is cancelled by the first SIGINT or SIGTERM. After that
// default signal handling is restored, so a second interrupt terminates a
// server whose handlers are blocked on an operator prompt.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	releaseOnDone(ctx, stop)
	return ctx, stop
}

func releaseOnDone(ctx context.Context, stop func()) {
	context.AfterFunc(ctx, stop)
}
