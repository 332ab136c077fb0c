package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coincontrol-dev/coincontrol/internal/model"
)

func TestAggregate_Shares(t *testing.T) {
	s := NewStore(t.TempDir())
	seed(t, s, "march",
		entry("Rent", model.SignExpense, "1000"),
		entry("Food", model.SignExpense, "500"),
	)

	sum, err := s.Aggregate("march")
	require.NoError(t, err)
	assert.Equal(t, time.March, sum.Month)
	assert.True(t, sum.TotalExpenses.Equal(dec("1500")))
	assert.True(t, sum.TotalEarnings.IsZero())

	shares := sum.ShareMap()
	require.Len(t, shares, 2)
	assert.True(t, shares["Rent"].Valid)
	assert.True(t, shares["Rent"].Value.Equal(dec("66.67")), "Rent share %s", shares["Rent"].Value)
	assert.True(t, shares["Food"].Value.Equal(dec("33.33")), "Food share %s", shares["Food"].Value)

	// Ordered like the ledger.
	require.Len(t, sum.Shares, 2)
	assert.Equal(t, "Rent", sum.Shares[0].Name)
	assert.Equal(t, "Food", sum.Shares[1].Name)

	// No earnings: spend ratio has nothing to divide by.
	assert.False(t, sum.SpendRatio.Valid)
	assert.True(t, sum.SpendRatio.Value.IsZero())
}

func TestAggregate_SpendRatio(t *testing.T) {
	sum := Summarize(newLedger(time.May, []model.Entry{
		entry("Salary", model.SignEarning, "3000"),
		entry("Rent", model.SignExpense, "1000"),
		entry("Food", model.SignExpense, "500"),
	}))

	assert.True(t, sum.TotalEarnings.Equal(dec("3000")))
	assert.True(t, sum.Net.Equal(dec("1500")))
	assert.True(t, sum.SpendRatio.Valid)
	assert.True(t, sum.SpendRatio.Value.Equal(dec("50")))
	assert.Equal(t, "50.00%", sum.SpendRatio.String())
}

func TestAggregate_NoExpenses(t *testing.T) {
	sum := Summarize(newLedger(time.May, []model.Entry{
		entry("Salary", model.SignEarning, "3000"),
	}))

	assert.True(t, sum.TotalExpenses.IsZero())
	assert.Empty(t, sum.Shares)
	assert.True(t, sum.SpendRatio.Valid)
	assert.True(t, sum.SpendRatio.Value.IsZero())
}

func TestAggregate_ZeroExpenseTotal(t *testing.T) {
	// Expenses zeroed out by edits: every share falls back to the sentinel.
	sum := Summarize(newLedger(time.May, []model.Entry{
		entry("Rent", model.SignExpense, "0"),
		entry("Food", model.SignExpense, "0"),
	}))

	require.Len(t, sum.Shares, 2)
	for _, sh := range sum.Shares {
		assert.False(t, sh.Percent.Valid, "share for %s", sh.Name)
		assert.True(t, sh.Percent.Value.IsZero())
		assert.Equal(t, "n/a", sh.Percent.String())
	}
}

func TestAggregate_EmptyLedger(t *testing.T) {
	s := NewStore(t.TempDir())

	sum, err := s.Aggregate("january")
	require.NoError(t, err)
	assert.True(t, sum.TotalEarnings.IsZero())
	assert.True(t, sum.TotalExpenses.IsZero())
	assert.True(t, sum.Net.IsZero())
	assert.False(t, sum.SpendRatio.Valid)
	assert.Empty(t, sum.Shares)
}

func TestAggregate_ExactDecimals(t *testing.T) {
	sum := Summarize(newLedger(time.May, []model.Entry{
		entry("A", model.SignExpense, "0.1"),
		entry("B", model.SignExpense, "0.2"),
		entry("C", model.SignExpense, "0.3"),
	}))
	assert.True(t, sum.TotalExpenses.Equal(dec("0.6")), "got %s", sum.TotalExpenses)
	assert.True(t, sum.ShareMap()["C"].Value.Equal(dec("50")))
	assert.True(t, sum.ShareMap()["A"].Value.Equal(dec("16.67")))
}

func TestAggregate_InvalidMonth(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Aggregate("thirteenth")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
