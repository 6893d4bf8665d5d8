package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/tsadmin/internal/config"
	"github.com/atinyakov/tsadmin/internal/db"
	"github.com/atinyakov/tsadmin/internal/models"
	"github.com/atinyakov/tsadmin/internal/repository"
)

// newSavedCmd prints the listing stored by earlier runs with --dsn.
func newSavedCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "Print the sites saved by earlier runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Load(cmd.Flags()); err != nil {
				return err
			}
			if opts.DSN == "" {
				return fmt.Errorf("%w: --dsn is required", models.ErrConfiguration)
			}
			database, err := db.InitPostgres(opts.DSN)
			if err != nil {
				return err
			}
			defer database.Close()

			sites, err := repository.NewPostgresSiteRepository(database).ListSites(cmd.Context())
			if err != nil {
				return err
			}
			return writeSites(cmd.OutOrStdout(), opts.Format, sites)
		},
	}
}
