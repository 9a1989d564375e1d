package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/facturafacil/facturafacil/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	dbURL string
}

// NewRootCmd builds the facturactl command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "facturactl",
		Short: "FacturaFácil operations CLI",
		Long: `facturactl manages a FacturaFácil deployment.

The database URL comes from --db, or from DATABASE_URL (a .env file in the
working directory is loaded first).

Subcommands:
  migrate  - Apply, roll back or inspect schema migrations
  seed     - Load the demo account
  user     - Manage user accounts`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.dbURL, "db", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")

	root.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newUserCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// databaseURL resolves the connection URL from the flag or the environment.
func (o *globalOptions) databaseURL() (string, error) {
	if o.dbURL != "" {
		return o.dbURL, nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("load .env: %w", err)
	}
	url, err := config.LoadDatabaseURL()
	if err != nil {
		return "", fmt.Errorf("--db flag or DATABASE_URL is required: %w", err)
	}
	return url, nil
}
