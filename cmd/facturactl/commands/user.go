package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facturafacil/facturafacil/internal/repository"
	"github.com/facturafacil/facturafacil/internal/service"
)

func newUserCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var input service.RegisterInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Long: `Create a user account with the same rules as the register endpoint.

Examples:
  facturactl user create --name "Ana Torres" --email ana@example.com --password s3cret!`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), opts, func(ctx context.Context, repo *repository.Repository) error {
				user, err := registrationService(repo).Register(ctx, input)
				if err != nil {
					return fmt.Errorf("create user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.ID, user.Email)
				return nil
			})
		},
	}
	create.Flags().StringVar(&input.Name, "name", "", "Display name")
	create.Flags().StringVar(&input.Email, "email", "", "Login email")
	create.Flags().StringVar(&input.Password, "password", "", "Initial password")
	for _, name := range []string{"name", "email", "password"} {
		_ = create.MarkFlagRequired(name)
	}

	cmd.AddCommand(create)
	return cmd
}
