package main

import (
	"github.com/spf13/cobra"

	"github.com/rently/rently-auth/internal/auth"
	"github.com/rently/rently-auth/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tokenctl",
		Short: "Mint and inspect rently session tokens",
		Long: `tokenctl reads the same AUTH_* environment (or .env file) as the API
and signs or verifies tokens with it. Useful for local testing and support.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMintCmd(), newInspectCmd())
	return root
}

// loadSettings resolves the signing settings from the environment.
func loadSettings() (auth.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return auth.Settings{}, err
	}
	return auth.NewSettings(cfg.Auth)
}
