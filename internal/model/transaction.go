package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction represents a parsed bank CSV row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}

// Entry converts the transaction into a ledger entry named after its
// description. The amount is stored unsigned.
func (t BankTransaction) Entry() Entry {
	sign := SignEarning
	if t.Amount.IsNegative() {
		sign = SignExpense
	}
	return Entry{Name: t.Description, Sign: sign, Amount: t.Amount.Abs()}
}
