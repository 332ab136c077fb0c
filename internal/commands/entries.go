package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coincontrol-dev/coincontrol/internal/activity"
	"github.com/coincontrol-dev/coincontrol/internal/ledger"
	"github.com/coincontrol-dev/coincontrol/internal/model"
	"github.com/coincontrol-dev/coincontrol/internal/month"
)

func newAddCommand(opts *globalOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "add <month> <name> <amount>",
		Short: "Record an earning or expense",
		Example: `  coincontrol add march Salary 2500 --type earning
  coincontrol add march "Rent, flat 2" 1000 --type expense`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sign, ok := model.ParseSignLabel(kind)
			if !ok {
				return fmt.Errorf("%w: --type must be earning or expense, got %q", ledger.ErrInvalidSign, kind)
			}
			amount, err := ledger.ParseAmount(args[2])
			if err != nil {
				return explain(err)
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			if err := a.store.Append(args[0], args[1], sign, amount); err != nil {
				return explain(err)
			}

			e := model.Entry{Name: strings.TrimSpace(args[1]), Sign: sign, Amount: amount}
			a.record(changeOf(activity.ActionAppend, args[0], e, ""))

			label := "Expense"
			if e.IsEarning() {
				label = "Earning"
			}
			fmt.Fprintf(a.out, "%s saved: %s %s\n", label, e.Name, a.money(e))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "earning or expense")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newEditCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <month> <name> <amount>",
		Short: "Change the amount of an existing entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ledger.ParseAmount(args[2])
			if err != nil {
				return explain(err)
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			e, err := a.store.Update(args[0], args[1], amount)
			if err != nil {
				return explain(err)
			}
			a.record(changeOf(activity.ActionUpdate, args[0], e, ""))

			fmt.Fprintf(a.out, "Entry updated: %s %s\n", e.Name, a.money(e))
			return nil
		},
	}
}

func newRemoveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <month> <name>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}

			e, err := a.store.Remove(args[0], args[1])
			if err != nil {
				return explain(err)
			}
			a.record(changeOf(activity.ActionRemove, args[0], e, ""))

			fmt.Fprintf(a.out, "Entry removed: %s\n", e.Name)
			return nil
		},
	}
}

// changeOf builds the activity row for a change to month key.
func changeOf(action activity.Action, key string, e model.Entry, details string) activity.Entry {
	m := strings.ToLower(strings.TrimSpace(key))
	if parsed, err := month.Parse(key); err == nil {
		m = month.Key(parsed)
	}
	return activity.Entry{
		Timestamp: time.Now(),
		Action:    action,
		Month:     m,
		Name:      e.Name,
		Sign:      string(e.Sign),
		Amount:    e.Amount.String(),
		Details:   details,
	}
}
