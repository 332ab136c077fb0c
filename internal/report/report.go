// Package report renders ledgers and summaries as plain text.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/coincontrol-dev/coincontrol/internal/ledger"
	"github.com/coincontrol-dev/coincontrol/internal/model"
)

// Color is a legend colour for one expense slice.
type Color struct {
	Name string
	Hex  string
}

// Palette is cycled through in expense order.
var Palette = []Color{
	{"Yellow", "#F4D03F"},
	{"Green", "#1E8449"},
	{"Red", "#A93226"},
	{"Blue", "#2471A3"},
	{"Orange", "#CA6F1E"},
	{"Purple", "#6C3483"},
}

// ColorFor returns the legend colour of the i-th expense.
func ColorFor(i int) Color {
	return Palette[i%len(Palette)]
}

// Money formats an amount with two decimals, e.g. "$1000.00".
func Money(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}

// Records writes the month's earnings and expenses.
func Records(w io.Writer, l ledger.Ledger, currency string) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n\n", l.Month)
	ew.printf("Earnings:\n")
	writeEntries(ew, l.Earnings, currency)
	ew.printf("\nExpenses:\n")
	writeEntries(ew, l.Expenses, currency)
	return ew.err
}

func writeEntries(ew *errWriter, entries []model.Entry, currency string) {
	if len(entries) == 0 {
		ew.printf("  (none)\n")
		return
	}
	for _, e := range entries {
		ew.printf("  %s: %s\n", e.Name, Money(currency, e.Amount))
	}
}

// Results writes the spending breakdown of a month: one line per expense
// with its share and legend colour, then the spend summary.
func Results(w io.Writer, s ledger.Summary, currency string) error {
	ew := &errWriter{w: w}
	ew.printf("Spending Results for %s\n\n", s.Month)

	if len(s.Shares) == 0 {
		ew.printf("No expenses recorded.\n")
	} else {
		tw := tabwriter.NewWriter(ew, 0, 4, 2, ' ', 0)
		for i, sh := range s.Shares {
			c := ColorFor(i)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\n", sh.Name, Money(currency, sh.Amount), sh.Percent, c.Name, c.Hex)
		}
		if err := tw.Flush(); err != nil && ew.err == nil {
			ew.err = err
		}
	}

	ew.printf("\nYou spent %s out of %s total.", Money(currency, s.TotalExpenses), Money(currency, s.TotalEarnings))
	if s.SpendRatio.Valid {
		ew.printf(" (This is %s of total earnings.)\n", s.SpendRatio)
	} else {
		ew.printf(" (No earnings recorded.)\n")
	}
	ew.printf("Balance: %s\n", signedMoney(currency, s.Net))
	return ew.err
}

// Year writes one totals line per month.
func Year(w io.Writer, summaries []ledger.Summary, currency string) error {
	ew := &errWriter{w: w}
	if len(summaries) == 0 {
		ew.printf("No ledgers recorded.\n")
		return ew.err
	}

	tw := tabwriter.NewWriter(ew, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Month\tEarnings\tExpenses\tBalance\tSpent\t\n")
	total := ledger.Summary{TotalEarnings: decimal.Zero, TotalExpenses: decimal.Zero}
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", s.Month,
			Money(currency, s.TotalEarnings), Money(currency, s.TotalExpenses),
			signedMoney(currency, s.Net), s.SpendRatio)
		total.TotalEarnings = total.TotalEarnings.Add(s.TotalEarnings)
		total.TotalExpenses = total.TotalExpenses.Add(s.TotalExpenses)
	}
	net := total.TotalEarnings.Sub(total.TotalExpenses)
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t\t\n",
		Money(currency, total.TotalEarnings), Money(currency, total.TotalExpenses), signedMoney(currency, net))
	if err := tw.Flush(); err != nil && ew.err == nil {
		ew.err = err
	}
	return ew.err
}

func signedMoney(currency string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + Money(currency, d.Abs())
	}
	return Money(currency, d)
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

func (ew *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(ew, format, args...)
}
