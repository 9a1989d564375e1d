package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/repository"
	"github.com/facturafacil/facturafacil/internal/seed"
	"github.com/facturafacil/facturafacil/internal/service"
)

func newSeedCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo account",
		Long: `Create the demo user with sample clients and invoices.

Running it again once the demo user exists changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), opts, func(ctx context.Context, repo *repository.Repository) error {
				recorder := metrics.NewNoop()
				result, err := seed.Run(ctx, seed.Services{
					Auth:     registrationService(repo),
					Clients:  service.NewClientService(repo, recorder),
					Invoices: service.NewInvoiceService(repo, recorder),
				}, time.Now())
				if errors.Is(err, seed.ErrAlreadySeeded) {
					fmt.Fprintln(cmd.OutOrStdout(), "demo data already present, nothing to do")
					return nil
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "created %d clients and %d invoices\n", result.Clients, result.Invoices)
				fmt.Fprintf(out, "login: %s / %s\n", seed.DemoEmail, seed.DemoPassword)
				return nil
			})
		},
	}
}

func withRepository(ctx context.Context, opts *globalOptions, fn func(ctx context.Context, repo *repository.Repository) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	url, err := opts.databaseURL()
	if err != nil {
		return err
	}

	repo, err := repository.New(ctx, url)
	if err != nil {
		return err
	}
	defer repo.Close()

	return fn(ctx, repo)
}

// registrationService builds an AuthService for account creation only.
// Registration never touches the session store, so none is wired.
func registrationService(repo *repository.Repository) *service.AuthService {
	return service.NewAuthService(repo, nil, 0, metrics.NewNoop(), nil)
}
