package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coincontrol-dev/coincontrol/internal/model"
)

// plainDecimal accepts digits with an optional fractional part: "12", "12.5",
// "12.", ".5". Signs, exponents and thousands separators are rejected.
var plainDecimal = regexp.MustCompile(`^(?:[0-9]+\.?[0-9]*|\.[0-9]+)$`)

// ValidateName trims surrounding whitespace and checks the result can be
// stored as a record name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, "\r\n") {
		return "", fmt.Errorf("%w: %q contains a line break", ErrInvalidName, name)
	}
	return name, nil
}

// ParseAmount parses user input into a non-negative amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !plainDecimal.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	return d, nil
}

func checkAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}
	return nil
}

// ValidationError describes one problem in a ledger's contents.
type ValidationError struct {
	Record      int // 1-based position in the ledger
	Name        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("record %d [%s]: %s", e.Record, e.Name, e.Description)
}

// ValidateEntries checks the invariants that ReadEntries cannot see from a
// single line: names are unique within the month and every field is usable.
func ValidateEntries(entries []model.Entry) []ValidationError {
	var errs []ValidationError
	firstSeen := make(map[string]int, len(entries))

	for i, e := range entries {
		rec := i + 1

		if _, err := ValidateName(e.Name); err != nil {
			errs = append(errs, ValidationError{Record: rec, Name: e.Name, Description: err.Error()})
		} else if e.Name != strings.TrimSpace(e.Name) {
			errs = append(errs, ValidationError{Record: rec, Name: e.Name, Description: "name has surrounding whitespace"})
		}

		if !e.Sign.Valid() {
			errs = append(errs, ValidationError{Record: rec, Name: e.Name, Description: fmt.Sprintf("unknown sign %q", e.Sign)})
		}

		if e.Amount.IsNegative() {
			errs = append(errs, ValidationError{Record: rec, Name: e.Name, Description: fmt.Sprintf("negative amount %s", e.Amount)})
		}

		if first, dup := firstSeen[e.Name]; dup {
			errs = append(errs, ValidationError{
				Record:      rec,
				Name:        e.Name,
				Description: fmt.Sprintf("duplicate of record %d", first),
			})
			continue
		}
		firstSeen[e.Name] = rec
	}
	return errs
}
