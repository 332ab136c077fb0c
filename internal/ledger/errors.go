package ledger

import (
	"errors"
	"fmt"

	"github.com/coincontrol-dev/coincontrol/internal/month"
)

var (
	// ErrInvalidMonth is returned for month keys that are not a month name.
	ErrInvalidMonth = month.ErrInvalid
	// ErrInvalidName is returned for empty names or names spanning lines.
	ErrInvalidName = errors.New("invalid entry name")
	// ErrInvalidSign is returned for signs other than "+" and "-".
	ErrInvalidSign = errors.New("invalid sign")
	// ErrInvalidAmount is returned when an amount is not a finite non-negative decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAlreadyExists is returned when appending a name the month already has.
	ErrAlreadyExists = errors.New("entry already exists")
	// ErrNotFound is returned when no entry in the month has the given name.
	ErrNotFound = errors.New("entry not found")
	// ErrCorruptRecord is matched by every *CorruptRecordError.
	ErrCorruptRecord = errors.New("corrupt record")
	// ErrIO wraps failures of the underlying file system.
	ErrIO = errors.New("ledger i/o failure")
)

// CorruptRecordError reports a stored line that does not parse as
// name,sign,amount.
type CorruptRecordError struct {
	Line int // 1-based line in the ledger file
	Err  error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record at line %d: %v", e.Line, e.Err)
}

// Is makes errors.Is(err, ErrCorruptRecord) true.
func (e *CorruptRecordError) Is(target error) bool {
	return target == ErrCorruptRecord
}

func (e *CorruptRecordError) Unwrap() error {
	return e.Err
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
