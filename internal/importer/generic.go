package importer

import (
	"fmt"
	"io"

	"github.com/coincontrol-dev/coincontrol/internal/model"
)

// GenericParser reads exports with date, description and amount columns,
// ISO dates and signed amounts.
type GenericParser struct{}

var genericLayout = layout{
	format:     "generic",
	dateLayout: "2006-01-02",
	date:       "date",
	desc:       "description",
	amount:     "amount",
}

// Format returns the parser name.
func (p *GenericParser) Format() string { return genericLayout.format }

// Parse reads a generic CSV and returns BankTransactions.
func (p *GenericParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	rows, err := genericLayout.rows(r)
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	for _, rw := range rows {
		txns = append(txns, model.BankTransaction{
			Date:        rw.date,
			Description: rw.desc,
			Amount:      rw.amount,
			Reference:   fmt.Sprintf("generic_%s_%d", rw.date.Format("20060102"), rw.num-1),
		})
	}
	return txns, nil
}
