// Package month maps user-supplied month names to canonical ledger keys.
package month

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid is returned for anything that is not one of the twelve month names.
var ErrInvalid = errors.New("invalid month")

// Ext is the ledger file extension.
const Ext = ".csv"

// Parse returns the month named by s. Matching is case-insensitive and
// ignores surrounding whitespace: "March", "march" and " MARCH " are equal.
func Parse(s string) (time.Month, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m := time.January; m <= time.December; m++ {
		if Key(m) == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
}

// Key returns the lower-cased storage key for m, e.g. "march".
func Key(m time.Month) string {
	return strings.ToLower(m.String())
}

// FileName returns the ledger file name for m, e.g. "march.csv".
func FileName(m time.Month) string {
	return Key(m) + Ext
}

// ParseFileName is the inverse of FileName.
func ParseFileName(name string) (time.Month, bool) {
	if !strings.HasSuffix(name, Ext) {
		return 0, false
	}
	key := strings.TrimSuffix(name, Ext)
	// Only exact storage keys count; "March.csv" is not a ledger file.
	if key != strings.ToLower(key) {
		return 0, false
	}
	m, err := Parse(key)
	if err != nil {
		return 0, false
	}
	return m, true
}

// All returns the twelve months in calendar order.
func All() []time.Month {
	months := make([]time.Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, m)
	}
	return months
}
