package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coincontrol-dev/coincontrol/internal/ledger"
	"github.com/coincontrol-dev/coincontrol/internal/month"
	"github.com/coincontrol-dev/coincontrol/internal/report"
)

// yearConcurrency bounds how many ledgers the year view reads at once.
const yearConcurrency = 4

func newListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <month>",
		Short: "Show a month's earnings and expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			l, err := a.store.List(args[0])
			if err != nil {
				return explain(err)
			}
			return report.Records(a.out, l, a.cfg.Display.Currency)
		},
	}
}

func newResultsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "results <month>",
		Short: "Show spending totals and each expense's share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			s, err := a.store.Aggregate(args[0])
			if err != nil {
				return explain(err)
			}
			return report.Results(a.out, s, a.cfg.Display.Currency)
		},
	}
}

func newYearCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "year",
		Short: "Summarize every recorded month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			summaries, err := summarizeAll(a.store)
			if err != nil {
				return explain(err)
			}
			return report.Year(a.out, summaries, a.cfg.Display.Currency)
		},
	}
}

// summarizeAll aggregates every month that has a ledger, in calendar order.
func summarizeAll(store *ledger.Store) ([]ledger.Summary, error) {
	months, err := store.Months()
	if err != nil {
		return nil, err
	}

	summaries := make([]ledger.Summary, len(months))
	var g errgroup.Group
	g.SetLimit(yearConcurrency)
	for i, m := range months {
		i, m := i, m
		g.Go(func() error {
			s, err := store.Aggregate(month.Key(m))
			if err != nil {
				return fmt.Errorf("%s: %w", month.Key(m), err)
			}
			summaries[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
