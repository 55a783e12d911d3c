package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airoi/internal/app"
	"airoi/internal/util/logger"
)

var (
	home       string
	configPath string
	logLevel   string
	passphrase string

	wire *app.Wire
)

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "airoi",
		Short:         "Peer-to-peer encrypted messaging over Noise XX",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = dir
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg, err := app.LoadConfig(home, configPath, os.Stderr)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			if passphrase == "" {
				passphrase = os.Getenv("AIROI_PASSPHRASE")
			}
			w, err := app.NewWire(cfg, log, newTerminalPrompter(os.Stdin, os.Stderr, passphrase))
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if wire != nil {
				wire.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default <user config dir>/airoi)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "keystore passphrase (default: $AIROI_PASSPHRASE, else prompt)")

	root.AddCommand(keygenCmd(), fingerprintCmd(), contactsCmd(), listenCmd(), sendCmd())

	if err := root.Execute(); err != nil {
		if wire != nil {
			wire.Close()
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}
