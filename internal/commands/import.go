package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coincontrol-dev/coincontrol/internal/activity"
	"github.com/coincontrol-dev/coincontrol/internal/importer"
	"github.com/coincontrol-dev/coincontrol/internal/logging"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank exports from the import/ directory",
		Long: `Import reads every CSV file in <dir>/import/, appends each transaction to the
ledger of its posting month and moves the file to import/processed/.
Transactions whose name already exists in that month are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.Import.DefaultFormat
			}
			p := importer.DefaultRegistry().Get(format)
			if p == nil {
				return fmt.Errorf("unknown import format %q", format)
			}

			files, err := importer.Scan(a.dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(a.out, "No files to import in %s\n", filepath.Join(a.dir, importer.Dir))
				return nil
			}

			log := logging.For(a.logger, logging.ComponentImport)
			for _, f := range files {
				res, err := importer.ImportFile(a.store, p, f.Path)
				a.record(importedActivity(f.Name, res)...)
				if err != nil {
					return explain(fmt.Errorf("%s: %w", f.Name, err))
				}
				if err := importer.MarkProcessed(a.dir, f.Name); err != nil {
					return err
				}
				log.Debug("imported file", "file", f.Name, "added", len(res.Added), "skipped", len(res.Skipped))
				fmt.Fprintf(a.out, "%s: %d added, %d skipped\n", f.Name, len(res.Added), len(res.Skipped))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format: chase or generic (default from config)")

	return cmd
}

func importedActivity(file string, res importer.Result) []activity.Entry {
	entries := make([]activity.Entry, 0, len(res.Added))
	for _, item := range res.Added {
		entries = append(entries, changeOf(activity.ActionImport, item.Month, item.Entry, file))
	}
	return entries
}
