package cmd

import (
	"fmt"
	"time"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Session token diagnostics",
}

var verifyTokenCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Verify a session token with the configured secret",
	Long:  `Print the identity id, role and expiry carried by a session token, or why it was rejected.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		session, err := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret).Verify(args[0])
		if err != nil {
			return fmt.Errorf("token rejected: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "user_id:    %s\n", session.UserID)
		fmt.Fprintf(out, "role:       %s\n", session.Role)
		fmt.Fprintf(out, "issued_at:  %s\n", session.IssuedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(out, "expires_at: %s\n", session.ExpiresAt.UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(verifyTokenCmd)
}
