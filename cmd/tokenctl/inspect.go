package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rently/rently-auth/internal/auth"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a token and print the identity it carries",
		Long: `Runs the same checks as the API middleware. The argument may be a bare
token or a full header value including the scheme prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			authenticator, err := auth.NewRequestAuthenticator(settings)
			if err != nil {
				return err
			}

			result := authenticator.Authenticate(args[0], auth.RequestMeta{})
			if !result.Authenticated() {
				return fmt.Errorf("%s: %w", result.Outcome, result.Err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"outcome":    result.Outcome.String(),
				"subject":    result.Context.Subject,
				"issued_at":  result.Context.IssuedAt,
				"expires_at": result.Context.ExpiresAt,
				"user":       result.Context.Identity,
			})
		},
	}
}
