// Package cli implements the query-sites command.
package cli

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/tsadmin/internal/client/inventory"
	"github.com/atinyakov/tsadmin/internal/client/restapi"
	"github.com/atinyakov/tsadmin/internal/config"
	"github.com/atinyakov/tsadmin/internal/db"
	"github.com/atinyakov/tsadmin/internal/logger"
	"github.com/atinyakov/tsadmin/internal/models"
	"github.com/atinyakov/tsadmin/internal/repository"
)

// errReported marks a failure that was already written to stderr.
var errReported = errors.New("run failed")

// BuildInfo is injected through ldflags by main.
type BuildInfo struct {
	Version   string
	BuildDate string
}

// Execute runs the root command and exits non-zero on failure.
func Execute(info BuildInfo) {
	cmd := NewRootCmd(info, Deps{})
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// Deps lets tests replace the interactive prompt.
type Deps struct {
	Prompt inventory.Prompter
}

// NewRootCmd builds the query-sites command.
func NewRootCmd(info BuildInfo, deps Deps) *cobra.Command {
	opts := config.Default()
	var showBuild bool

	cmd := &cobra.Command{
		Use:           "query-sites",
		Short:         "Query sites on a Tableau Server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showBuild {
				fmt.Fprintf(cmd.OutOrStdout(), "query-sites\nVersion: %s\nBuild Date: %s\n",
					cmp.Or(info.Version, "N/A"), cmp.Or(info.BuildDate, "N/A"))
				return nil
			}
			if err := opts.Load(cmd.Flags()); err != nil {
				return err
			}
			log, err := newLogger(opts.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			prompt := deps.Prompt
			if prompt == nil {
				prompt = inventory.TerminalPrompter()
			}
			return querySites(cmd.Context(), opts, prompt, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	opts.BindFlags(cmd.PersistentFlags())
	cmd.Flags().BoolVar(&showBuild, "build-info", false, "show build version and date")
	cmd.AddCommand(newSavedCmd(opts))
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	l := logger.New()
	if err := l.Init(level); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return l.Log, nil
}

// querySites resolves the credential, runs the inventory and reports the
// result. Listing errors are printed and turn into a non-zero exit; a
// sign-out error alone is only printed.
func querySites(ctx context.Context, opts *config.Options, prompt inventory.Prompter, log *zap.Logger, stdout, stderr io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cred, err := inventory.ResolveCredential(inventory.CredentialSource{
		Username:    opts.Username,
		Password:    opts.Password,
		TokenName:   opts.TokenName,
		TokenSecret: opts.TokenSecret,
	}, prompt, log)
	if err != nil {
		return err
	}

	httpClient, err := restapi.NewHTTPClient(opts.TLSPolicy(), time.Duration(opts.Timeout))
	if err != nil {
		return err
	}
	api := restapi.New(opts.APIURL(),
		restapi.WithHTTPClient(httpClient),
		restapi.WithLogger(log),
	)

	runOpts := []inventory.Option{
		inventory.WithPageSize(opts.PageSize),
		inventory.WithLogger(log),
	}
	if opts.DSN != "" {
		database, err := db.InitPostgres(opts.DSN)
		if err != nil {
			return err
		}
		defer database.Close()
		runOpts = append(runOpts, inventory.WithStore(&pruningStore{
			repo:      repository.NewPostgresSiteRepository(database),
			db:        database,
			retention: time.Duration(opts.Retention),
			log:       log,
		}))
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := inventory.NewRunner(api, runOpts...).Run(ctx, cred, opts.Site)

	if res.Err == nil {
		if err := writeSites(stdout, opts.Format, res.Sorted()); err != nil {
			return err
		}
	}
	if res.SignOutErr != nil {
		fmt.Fprintf(stderr, "warning: %v\n", res.SignOutErr)
	}
	if res.Err != nil {
		fmt.Fprintln(stderr, res.Err)
		return errReported
	}
	return nil
}

// pruningStore saves a listing and then drops rows the server no longer
// reports.
type pruningStore struct {
	repo      *repository.PostgresSiteRepository
	db        *sql.DB
	retention time.Duration
	log       *zap.Logger
}

func (s *pruningStore) SaveSites(ctx context.Context, sites []models.SiteRecord) error {
	if err := s.repo.SaveSites(ctx, sites); err != nil {
		return err
	}
	_, err := db.PruneStaleSites(ctx, s.db, s.retention, s.log)
	return err
}
