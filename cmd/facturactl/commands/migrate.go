package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facturafacil/facturafacil/internal/repository"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Run the embedded SQL migrations.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Show the applied schema version`,
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long: `Roll back applied migrations.

Examples:
  facturactl migrate down              # Roll back the last migration
  facturactl migrate down --steps 2    # Roll back two migrations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, func(mg *repository.Migrator) error {
				if err := mg.Down(steps); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(opts, func(mg *repository.Migrator) error {
					if err := mg.Up(); err != nil {
						return err
					}
					return printVersion(cmd, mg)
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Show the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(opts, func(mg *repository.Migrator) error {
					return printVersion(cmd, mg)
				})
			},
		},
	)
	return cmd
}

func withMigrator(opts *globalOptions, fn func(mg *repository.Migrator) error) (err error) {
	url, err := opts.databaseURL()
	if err != nil {
		return err
	}

	mg, err := repository.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := mg.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close migrator: %w", closeErr)
		}
	}()

	return fn(mg)
}

func printVersion(cmd *cobra.Command, mg *repository.Migrator) error {
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	suffix := ""
	if dirty {
		suffix = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d%s\n", version, suffix)
	return nil
}
