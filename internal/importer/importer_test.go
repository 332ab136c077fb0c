package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coincontrol-dev/coincontrol/internal/ledger"
	"github.com/coincontrol-dev/coincontrol/internal/model"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

func parseChaseTestdata(t *testing.T) []model.BankTransaction {
	t.Helper()
	f, err := os.Open("../../testdata/chase_checking.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&ChaseParser{}).Parse(f)
	require.NoError(t, err)
	return txns
}

func TestChaseParser_Parse(t *testing.T) {
	txns := parseChaseTestdata(t)
	require.Len(t, txns, 6)

	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", txns[0].Description)
	assert.Equal(t, "-4.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", txns[0].Type)
	assert.True(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC).Equal(txns[0].Date))

	assert.Equal(t, "STAPLES OFFICE SUPPLY", txns[2].Description, "inner whitespace collapsed")

	assert.Equal(t, "ACME CONSULTING INVOICE 1042", txns[3].Description)
	assert.True(t, txns[3].Amount.IsPositive())
	assert.Equal(t, "3500.00", txns[3].Amount.StringFixed(2))

	assert.Equal(t, "chase_20250103_GITHUBPROS", txns[0].Reference)
}

func TestChaseParser_Errors(t *testing.T) {
	p := &ChaseParser{}

	txns, err := p.Parse(strings.NewReader(chaseHeader))
	require.NoError(t, err)
	assert.Nil(t, txns)

	_, err = p.Parse(strings.NewReader(chaseHeader + "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")

	_, err = p.Parse(strings.NewReader(chaseHeader + "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestGenericParser_Parse(t *testing.T) {
	f, err := os.Open("../../testdata/generic.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&GenericParser{}).Parse(f)
	require.NoError(t, err)
	require.Len(t, txns, 4)

	assert.Equal(t, "Salary", txns[0].Description)
	assert.Equal(t, time.March, txns[0].Date.Month())
	assert.Equal(t, "Rent", txns[1].Description)
	assert.True(t, txns[1].Amount.Equal(decimal.RequireFromString("-1000")))
	assert.Equal(t, "Groceries, weekly", txns[2].Description)
	assert.Equal(t, time.April, txns[3].Date.Month())
}

func TestGenericParser_BadRow(t *testing.T) {
	_, err := (&GenericParser{}).Parse(strings.NewReader("date,description,amount\n03/01/2025,Salary,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestChaseParser_ReorderedColumns(t *testing.T) {
	in := "\ufeffDescription,Amount,Posting Date\n" +
		"COFFEE   SHOP,-3.50,02/14/2025\n"
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, "COFFEE SHOP", txns[0].Description)
	assert.Equal(t, time.February, txns[0].Date.Month())
	assert.Empty(t, txns[0].Type)
	assert.Equal(t, "chase_20250214_COFFEESHOP", txns[0].Reference)
}

func TestParser_MissingColumn(t *testing.T) {
	_, err := (&GenericParser{}).Parse(strings.NewReader("date,amount\n2025-03-01,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "description"`)
}

func TestParser_EmptyInput(t *testing.T) {
	txns, err := (&GenericParser{}).Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("chase"))

	r.Register(&ChaseParser{})
	require.NotNil(t, r.Get("CHASE"))
	assert.Equal(t, "chase", r.Get("Chase").Format())
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })

	d := DefaultRegistry()
	assert.NotNil(t, d.Get("chase"))
	assert.NotNil(t, d.Get("generic"))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, ProcessedDir)
	require.NoError(t, os.MkdirAll(processed, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, Dir, "bank.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, Dir, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "bank.CSV", files[0].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, Dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, Dir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(dir, Dir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, ProcessedDir, "bank.csv"))
	assert.NoError(t, err)
}

func TestImportFile_Chase(t *testing.T) {
	store := ledger.NewStore(t.TempDir())

	res, err := ImportFile(store, &ChaseParser{}, "../../testdata/chase_checking.csv")
	require.NoError(t, err)
	assert.Len(t, res.Added, 6)
	assert.Empty(t, res.Skipped)

	jan, err := store.List("january")
	require.NoError(t, err)
	require.Len(t, jan.Expenses, 4)
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", jan.Expenses[0].Name)
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION (01/22)", jan.Expenses[3].Name)
	require.Len(t, jan.Earnings, 1)
	assert.True(t, jan.Earnings[0].Amount.Equal(decimal.RequireFromString("3500")))

	sum, err := store.Aggregate("january")
	require.NoError(t, err)
	assert.Equal(t, "150.50", sum.TotalExpenses.StringFixed(2), "both GitHub charges are counted")

	feb, err := store.List("february")
	require.NoError(t, err)
	require.Len(t, feb.Expenses, 1)
	assert.Equal(t, "USPS POSTAGE", feb.Expenses[0].Name)
	assert.True(t, feb.Expenses[0].Amount.Equal(decimal.RequireFromString("12.40")))
}

func TestImportFile_Reimport(t *testing.T) {
	store := ledger.NewStore(t.TempDir())

	_, err := ImportFile(store, &ChaseParser{}, "../../testdata/chase_checking.csv")
	require.NoError(t, err)

	res, err := ImportFile(store, &ChaseParser{}, "../../testdata/chase_checking.csv")
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Len(t, res.Skipped, 6)

	sum, err := store.Aggregate("january")
	require.NoError(t, err)
	assert.Equal(t, "150.50", sum.TotalExpenses.StringFixed(2))
}

func TestImport_RepeatedNames(t *testing.T) {
	store := ledger.NewStore(t.TempDir())
	require.NoError(t, store.Append("march", "COFFEE", model.SignExpense, decimal.RequireFromString("2")))

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	txns := []model.BankTransaction{
		{Date: day(1), Description: "COFFEE", Amount: decimal.RequireFromString("-2")},
		{Date: day(4), Description: "COFFEE", Amount: decimal.RequireFromString("-3")},
		{Date: day(4), Description: "COFFEE", Amount: decimal.RequireFromString("-5")},
	}

	res, err := Import(store, txns)
	require.NoError(t, err)
	require.Len(t, res.Skipped, 1, "first charge was already in the ledger")
	assert.Equal(t, "COFFEE", res.Skipped[0].Entry.Name)
	require.Len(t, res.Added, 2)
	assert.Equal(t, "COFFEE (03/04)", res.Added[0].Entry.Name)
	assert.Equal(t, "COFFEE (03/04 #2)", res.Added[1].Entry.Name)

	sum, err := store.Aggregate("march")
	require.NoError(t, err)
	assert.True(t, sum.TotalExpenses.Equal(decimal.RequireFromString("10")))
}

func TestImportFile_Missing(t *testing.T) {
	_, err := ImportFile(ledger.NewStore(t.TempDir()), &ChaseParser{}, filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type failingAppender struct{ err error }

func (f failingAppender) Append(string, string, model.Sign, decimal.Decimal) error { return f.err }

func TestImport_StopsOnFailure(t *testing.T) {
	boom := errors.New("disk full")
	txns := []model.BankTransaction{
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Description: "Rent", Amount: decimal.RequireFromString("-1000")},
	}

	res, err := Import(failingAppender{err: boom}, txns)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, res.Added)
}

func TestImport_BlankDescriptionUsesReference(t *testing.T) {
	store := ledger.NewStore(t.TempDir())
	txns := []model.BankTransaction{
		{Date: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), Description: " ", Amount: decimal.RequireFromString("-3"), Reference: "chase_20250502_"},
	}

	res, err := Import(store, txns)
	require.NoError(t, err)
	require.Len(t, res.Added, 1)

	_, err = store.Get("may", "chase_20250502_")
	require.NoError(t, err)
}
