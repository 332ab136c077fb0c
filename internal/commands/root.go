package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/coincontrol-dev/coincontrol/internal/activity"
	"github.com/coincontrol-dev/coincontrol/internal/buildinfo"
	"github.com/coincontrol-dev/coincontrol/internal/config"
	"github.com/coincontrol-dev/coincontrol/internal/history"
	"github.com/coincontrol-dev/coincontrol/internal/ledger"
	"github.com/coincontrol-dev/coincontrol/internal/logging"
	"github.com/coincontrol-dev/coincontrol/internal/model"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	dir     string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "coincontrol",
		Short:   "Track monthly earnings and expenses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "data directory (default $"+config.EnvDir+" or the XDG config home)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newEditCommand(opts),
		newRemoveCommand(opts),
		newListCommand(opts),
		newResultsCommand(opts),
		newYearCommand(opts),
		newCheckCommand(opts),
		newImportCommand(opts),
	)

	return rootCmd
}

// app bundles what a subcommand needs once the data directory is known.
type app struct {
	dir    string
	cfg    *config.Config
	logger *slog.Logger // tag with logging.For per component
	store  *ledger.Store
	out    io.Writer
}

func (o *globalOptions) open(cmd *cobra.Command) (*app, error) {
	config.LoadEnv()

	dir, err := config.Resolve(o.dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv()

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(cmd.ErrOrStderr(), level)
	logging.For(logger, logging.ComponentApp).Debug("opened data directory", "dir", dir, "currency", cfg.Display.Currency)

	return &app{
		dir:    dir,
		cfg:    cfg,
		logger: logger,
		store:  ledger.NewStore(dir, ledger.WithLogger(logging.For(logger, logging.ComponentLedger))),
		out:    cmd.OutOrStdout(),
	}, nil
}

// record writes the change to the activity log and, when enabled, commits
// the data directory. Failures here are reported but do not fail the command:
// the ledger itself is already updated.
func (a *app) record(entries ...activity.Entry) {
	if len(entries) == 0 {
		return
	}
	if err := activity.Append(a.dir, entries...); err != nil {
		logging.For(a.logger, logging.ComponentActivity).Warn("failed to write activity log", "error", err)
	}

	if !a.cfg.Git.AutoCommit {
		return
	}
	log := logging.For(a.logger, logging.ComponentHistory)
	repo := a.repo()
	if !repo.IsRepo() {
		log.Warn("git auto-commit enabled but data directory is not a repository", "dir", a.dir)
		return
	}
	first := entries[0]
	msg := fmt.Sprintf("%s: %s %s", first.Action, first.Month, first.Name)
	if len(entries) > 1 {
		msg = fmt.Sprintf("%s: %d entries", first.Action, len(entries))
	}
	hash, err := repo.Commit(msg)
	if errors.Is(err, history.ErrNothingToCommit) {
		return
	}
	if err != nil {
		log.Warn("failed to commit data directory", "error", err)
		return
	}
	log.Debug("committed", "hash", hash)
}

func (a *app) repo() history.Repo {
	return history.Repo{Dir: a.dir, AuthorName: a.cfg.Git.AuthorName, AuthorEmail: a.cfg.Git.AuthorEmail}
}

func (a *app) money(e model.Entry) string {
	return a.cfg.Display.Currency + e.Amount.StringFixed(2)
}
