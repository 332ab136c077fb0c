package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent is a percentage rounded to two decimals. Valid is false when the
// denominator was zero; Value is then zero.
type Percent struct {
	Value decimal.Decimal
	Valid bool
}

func (p Percent) String() string {
	if !p.Valid {
		return "n/a"
	}
	return p.Value.StringFixed(2) + "%"
}

func percentOf(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return Percent{Value: decimal.Zero}
	}
	return Percent{Value: part.Mul(hundred).DivRound(whole, 2), Valid: true}
}

// Share is one expense's slice of the month's spending.
type Share struct {
	Name    string
	Amount  decimal.Decimal
	Percent Percent
}

// Summary holds the aggregate figures for one month.
type Summary struct {
	Month         time.Month
	TotalEarnings decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
	SpendRatio    Percent // expenses as a share of earnings
	Shares        []Share // one per expense, ledger order
}

// Summarize derives a Summary from a ledger.
func Summarize(l Ledger) Summary {
	s := Summary{
		Month:         l.Month,
		TotalEarnings: decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, e := range l.Earnings {
		s.TotalEarnings = s.TotalEarnings.Add(e.Amount)
	}
	for _, e := range l.Expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
	}
	s.Net = s.TotalEarnings.Sub(s.TotalExpenses)
	s.SpendRatio = percentOf(s.TotalExpenses, s.TotalEarnings)

	s.Shares = make([]Share, 0, len(l.Expenses))
	for _, e := range l.Expenses {
		s.Shares = append(s.Shares, Share{
			Name:    e.Name,
			Amount:  e.Amount,
			Percent: percentOf(e.Amount, s.TotalExpenses),
		})
	}
	return s
}

// ShareMap returns each expense's percentage keyed by name.
func (s Summary) ShareMap() map[string]Percent {
	m := make(map[string]Percent, len(s.Shares))
	for _, sh := range s.Shares {
		m[sh.Name] = sh.Percent
	}
	return m
}
