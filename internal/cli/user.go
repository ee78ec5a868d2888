package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hassan3301/dailycrm/internal/adapter/postgres/user"
	"github.com/hassan3301/dailycrm/internal/domain"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage tenants",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE:  runUserCreate,
	}
	create.Flags().String("email", "", "Email address (required)")
	create.Flags().String("name", "", "Display name")
	create.MarkFlagRequired("email") //nolint:errcheck

	cmd.AddCommand(create)
	return cmd
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")

	e, err := loadEnv()
	if err != nil {
		return err
	}
	pool, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	u, err := user.New(pool).Create(cmd.Context(), &domain.User{Email: email, Name: name})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", u.ID, u.Email)
	return nil
}
