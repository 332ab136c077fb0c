package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coincontrol-dev/coincontrol/internal/activity"
	"github.com/coincontrol-dev/coincontrol/internal/config"
	"github.com/coincontrol-dev/coincontrol/internal/history"
	"github.com/coincontrol-dev/coincontrol/internal/importer"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var useGit bool
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirFlag := opts.dir
			if len(args) > 0 {
				dirFlag = args[0]
			}
			config.LoadEnv()
			dir, err := config.Resolve(dirFlag)
			if err != nil {
				return err
			}
			if err := runInit(dir, currency, useGit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized CoinControl data directory at %s\n", dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useGit, "git", false, "keep history of the data directory in git")
	cmd.Flags().StringVar(&currency, "currency", "", "currency symbol for display (default \"$\")")

	return cmd
}

func runInit(dir, currency string, useGit bool) error {
	dirs := []string{
		filepath.Dir(activity.RelPath),
		importer.Dir,
		importer.ProcessedDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// An existing config is kept so re-running init is harmless.
	cfgPath := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return err
	}
	if currency != "" {
		cfg.Display.Currency = currency
	}
	if useGit {
		cfg.Git.AutoCommit = true
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, importer.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		return nil
	}

	repo := history.Repo{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	if !repo.IsRepo() {
		if err := repo.Init(); err != nil {
			return err
		}
	}
	if _, err := repo.Commit("init: CoinControl data directory"); err != nil && !errors.Is(err, history.ErrNothingToCommit) {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}
