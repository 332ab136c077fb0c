package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coincontrol-dev/coincontrol/internal/ledger"
)

// errProblems is returned by check when a ledger fails validation.
var errProblems = errors.New("ledger has problems")

func newCheckCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <month>",
		Short: "Validate a month's ledger file",
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

			problems := ledger.ValidateEntries(l.Entries)
			if len(problems) == 0 {
				fmt.Fprintf(a.out, "%s: %d records ok\n", l.Month, len(l.Entries))
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(a.out, "%s: %s\n", l.Month, p)
			}
			return fmt.Errorf("%w: %d found in %s", errProblems, len(problems), l.Month)
		},
	}
}
