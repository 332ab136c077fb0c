package model

import "github.com/shopspring/decimal"

// Sign tags an entry as an earning or an expense.
type Sign string

const (
	SignEarning Sign = "+"
	SignExpense Sign = "-"
)

// Valid reports whether s is one of the two known signs.
func (s Sign) Valid() bool {
	return s == SignEarning || s == SignExpense
}

// Label returns the human name for the sign ("earning" / "expense").
func (s Sign) Label() string {
	switch s {
	case SignEarning:
		return "earning"
	case SignExpense:
		return "expense"
	default:
		return string(s)
	}
}

// ParseSignLabel maps "earning"/"expense" (or "+"/"-") to a Sign.
func ParseSignLabel(label string) (Sign, bool) {
	switch label {
	case "earning", "earnings", "income", "+":
		return SignEarning, true
	case "expense", "expenses", "spend", "-":
		return SignExpense, true
	}
	return "", false
}

// Entry is a single row in a month ledger file.
type Entry struct {
	Name   string
	Sign   Sign
	Amount decimal.Decimal // always >= 0; the sign carries direction
}

// IsEarning reports whether the entry adds to the month's balance.
func (e Entry) IsEarning() bool { return e.Sign == SignEarning }

// IsExpense reports whether the entry subtracts from the month's balance.
func (e Entry) IsExpense() bool { return e.Sign == SignExpense }

// Signed returns the amount with the entry's direction applied.
// An earning of 10 yields 10, an expense of 10 yields -10.
func (e Entry) Signed() decimal.Decimal {
	if e.IsExpense() {
		return e.Amount.Neg()
	}
	return e.Amount
}
