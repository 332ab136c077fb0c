// Package ledger stores one month of earnings and expenses per CSV file and
// derives totals and percentage breakdowns from it.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coincontrol-dev/coincontrol/internal/model"
	"github.com/coincontrol-dev/coincontrol/internal/month"
)

// Store reads and writes the month ledgers under a single directory.
// Operations on the same month are serialized; different months do not
// block each other.
type Store struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	locks map[time.Month]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		locks:  make(map[time.Month]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ledger is the materialized view of one month, partitioned by sign.
type Ledger struct {
	Month    time.Month
	Entries  []model.Entry // file order
	Earnings []model.Entry
	Expenses []model.Entry
}

func newLedger(m time.Month, entries []model.Entry) Ledger {
	l := Ledger{Month: m, Entries: entries}
	for _, e := range entries {
		switch e.Sign {
		case model.SignEarning:
			l.Earnings = append(l.Earnings, e)
		case model.SignExpense:
			l.Expenses = append(l.Expenses, e)
		}
	}
	return l
}

// Dir returns the directory holding the ledger files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the ledger file for a month key.
func (s *Store) Path(key string) (string, error) {
	m, err := month.Parse(key)
	if err != nil {
		return "", err
	}
	return s.monthPath(m), nil
}

// List returns the month's entries. A month without a file is empty.
func (s *Store) List(key string) (Ledger, error) {
	m, err := month.Parse(key)
	if err != nil {
		return Ledger{}, err
	}

	unlock := s.lock(m)
	defer unlock()

	entries, err := readFile(s.monthPath(m))
	if err != nil {
		return Ledger{}, fmt.Errorf("reading %s: %w", month.Key(m), err)
	}
	return newLedger(m, entries), nil
}

// Get returns the entry with this name.
func (s *Store) Get(key, name string) (model.Entry, error) {
	l, err := s.List(key)
	if err != nil {
		return model.Entry{}, err
	}
	name, err = ValidateName(name)
	if err != nil {
		return model.Entry{}, err
	}
	if i := indexOf(l.Entries, name); i >= 0 {
		return l.Entries[i], nil
	}
	return model.Entry{}, fmt.Errorf("%w: %q in %s", ErrNotFound, name, month.Key(l.Month))
}

// Append adds a new entry to the end of the month's ledger. It fails with
// ErrAlreadyExists, without writing, if the name is already recorded.
func (s *Store) Append(key, name string, sign model.Sign, amount decimal.Decimal) error {
	m, err := month.Parse(key)
	if err != nil {
		return err
	}
	name, err = ValidateName(name)
	if err != nil {
		return err
	}
	if !sign.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidSign, sign)
	}
	if err := checkAmount(amount); err != nil {
		return err
	}

	entry := model.Entry{Name: name, Sign: sign, Amount: amount}
	line, err := encodeLine(entry)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", name, err)
	}

	unlock := s.lock(m)
	defer unlock()

	path := s.monthPath(m)
	entries, err := readFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", month.Key(m), err)
	}
	if indexOf(entries, name) >= 0 {
		return fmt.Errorf("%w: %q in %s", ErrAlreadyExists, name, month.Key(m))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return ioError("creating ledger dir", err)
	}
	if err := appendRecord(path, line); err != nil {
		return err
	}

	s.logger.Debug("entry appended",
		"op", "append", "month", month.Key(m), "name", name, "sign", string(sign), "amount", amount.String())
	return nil
}

// Update replaces the amount of the entry with this name, keeping its sign
// and position, and returns the entry as written. Every other record is
// written back unchanged. The file is left untouched when the name is absent.
func (s *Store) Update(key, name string, amount decimal.Decimal) (model.Entry, error) {
	name, err := ValidateName(name)
	if err != nil {
		return model.Entry{}, err
	}
	if err := checkAmount(amount); err != nil {
		return model.Entry{}, err
	}

	e, err := s.rewrite(key, name, "update", func(entries []model.Entry) []model.Entry {
		for i := range entries {
			if sameName(entries[i], name) {
				entries[i].Amount = amount
			}
		}
		return entries
	})
	if err != nil {
		return model.Entry{}, err
	}
	e.Amount = amount
	return e, nil
}

// Remove deletes the entry with this name and returns it as it was stored.
func (s *Store) Remove(key, name string) (model.Entry, error) {
	name, err := ValidateName(name)
	if err != nil {
		return model.Entry{}, err
	}

	return s.rewrite(key, name, "remove", func(entries []model.Entry) []model.Entry {
		return slices.DeleteFunc(entries, func(e model.Entry) bool {
			return sameName(e, name)
		})
	})
}

// rewrite loads the month, applies change when name is present and replaces
// the file atomically. It returns the first matching entry as read, before
// the change.
func (s *Store) rewrite(key, name, op string, change func([]model.Entry) []model.Entry) (model.Entry, error) {
	m, err := month.Parse(key)
	if err != nil {
		return model.Entry{}, err
	}

	unlock := s.lock(m)
	defer unlock()

	path := s.monthPath(m)
	entries, err := readFile(path)
	if err != nil {
		return model.Entry{}, fmt.Errorf("reading %s: %w", month.Key(m), err)
	}
	i := indexOf(entries, name)
	if i < 0 {
		return model.Entry{}, fmt.Errorf("%w: %q in %s", ErrNotFound, name, month.Key(m))
	}
	found := entries[i]

	updated := change(entries)
	err = replaceFile(path, func(w io.Writer) error {
		return WriteEntries(w, updated)
	})
	if err != nil {
		return model.Entry{}, err
	}

	s.logger.Debug("ledger rewritten", "op", op, "month", month.Key(m), "name", name, "records", len(updated))
	return found, nil
}

// Aggregate computes totals and shares for the month.
func (s *Store) Aggregate(key string) (Summary, error) {
	l, err := s.List(key)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(l), nil
}

// Months returns the months that have a ledger file, in calendar order.
func (s *Store) Months() ([]time.Month, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ioError("reading ledger dir", err)
	}

	var months []time.Month
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if m, ok := month.ParseFileName(de.Name()); ok {
			months = append(months, m)
		}
	}
	slices.Sort(months)
	return months, nil
}

func (s *Store) lock(m time.Month) func() {
	s.mu.Lock()
	l, ok := s.locks[m]
	if !ok {
		l = &sync.Mutex{}
		s.locks[m] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Store) monthPath(m time.Month) string {
	return filepath.Join(s.dir, month.FileName(m))
}

func indexOf(entries []model.Entry, name string) int {
	return slices.IndexFunc(entries, func(e model.Entry) bool {
		return sameName(e, name)
	})
}

// sameName compares a stored name with a validated one. Stored names may
// carry surrounding whitespace from hand edits; case still matters.
func sameName(e model.Entry, name string) bool {
	return strings.TrimSpace(e.Name) == name
}
