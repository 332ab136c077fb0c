package importer

import (
	"fmt"
	"io"

	"github.com/coincontrol-dev/coincontrol/internal/model"
)

// ChaseParser parses Chase checking account exports. Amounts are signed:
// debits negative, credits positive.
type ChaseParser struct{}

var chaseLayout = layout{
	format:     "chase",
	dateLayout: "01/02/2006",
	date:       "Posting Date",
	desc:       "Description",
	amount:     "Amount",
	kind:       "Type",
}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return chaseLayout.format }

// Parse reads a Chase CSV and returns BankTransactions.
func (p *ChaseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	rows, err := chaseLayout.rows(r)
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	for _, rw := range rows {
		txns = append(txns, model.BankTransaction{
			Date:        rw.date,
			Description: rw.desc,
			Amount:      rw.amount,
			// e.g. chase_20250103_GITHUBPROS
			Reference: fmt.Sprintf("chase_%s_%s", rw.date.Format("20060102"), refPrefix(rw.desc)),
			Type:      rw.kind,
		})
	}
	return txns, nil
}
