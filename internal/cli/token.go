package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hassan3301/dailycrm/internal/adapter/postgres/user"
	"github.com/hassan3301/dailycrm/internal/auth"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens",
	}

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for a user",
		Long:  "Issue an access token. --user-id signs without touching the database; --email looks the user up first.",
		RunE:  runTokenIssue,
	}
	issue.Flags().String("user-id", "", "User ID")
	issue.Flags().String("email", "", "User email")
	issue.MarkFlagsOneRequired("user-id", "email")
	issue.MarkFlagsMutuallyExclusive("user-id", "email")

	cmd.AddCommand(issue)
	return cmd
}

func runTokenIssue(cmd *cobra.Command, _ []string) error {
	rawID, _ := cmd.Flags().GetString("user-id")
	email, _ := cmd.Flags().GetString("email")

	e, err := loadEnv()
	if err != nil {
		return err
	}

	var userID uuid.UUID
	if rawID != "" {
		userID, err = uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("parse user id: %w", err)
		}
	} else {
		pool, err := e.connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		u, err := user.New(pool).GetByEmail(cmd.Context(), email)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		userID, email = u.ID, u.Email
	}

	jwtManager := auth.NewJWTManager(e.cfg.Auth.JWTSecret, e.cfg.Auth.JWTIssuer, e.cfg.Auth.AccessTokenTTL)
	token, err := jwtManager.GenerateAccessToken(userID, email)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
