// Package importer turns bank statement exports into month ledger entries.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coincontrol-dev/coincontrol/internal/ledger"
	"github.com/coincontrol-dev/coincontrol/internal/model"
	"github.com/coincontrol-dev/coincontrol/internal/month"
)

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Appender is the part of the ledger store an import writes through.
type Appender interface {
	Append(key, name string, sign model.Sign, amount decimal.Decimal) error
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&GenericParser{})
	return r
}

// Dir is the data subdirectory scanned for exports.
const Dir = "import"

// ProcessedDir receives exports once imported.
var ProcessedDir = filepath.Join(Dir, "processed")

// Scan returns CSV files in <dataDir>/import/.
func Scan(dataDir string) ([]FileInfo, error) {
	dir := filepath.Join(dataDir, Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(dataDir, fileName string) error {
	src := filepath.Join(dataDir, Dir, fileName)
	dstDir := filepath.Join(dataDir, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Imported is a transaction that became a ledger entry.
type Imported struct {
	Month string
	Entry model.Entry
}

// Result reports what one import did.
type Result struct {
	Added   []Imported
	Skipped []Imported // names already present in their month
}

// Import appends each transaction to the ledger of its posting month. The
// year is not part of the ledger key.
//
// A name repeated within txns is a separate charge: later occurrences are
// named after their posting date ("NAME (01/22)"). Names are assigned the
// same way on every run, so a transaction whose name is already in the
// ledger was imported before and is skipped. Any other failure stops the
// import.
func Import(store Appender, txns []model.BankTransaction) (Result, error) {
	var res Result
	taken := make(map[string]map[string]bool) // month key -> names used by this import
	for i, txn := range txns {
		e := txn.Entry()
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			e.Name = txn.Reference
		}
		key := month.Key(txn.Date.Month())
		if taken[key] == nil {
			taken[key] = make(map[string]bool)
		}
		e.Name = uniqueName(taken[key], e.Name, txn.Date)
		taken[key][e.Name] = true
		item := Imported{Month: key, Entry: e}

		err := store.Append(key, e.Name, e.Sign, e.Amount)
		switch {
		case err == nil:
			res.Added = append(res.Added, item)
		case errors.Is(err, ledger.ErrAlreadyExists):
			res.Skipped = append(res.Skipped, item)
		default:
			return res, fmt.Errorf("transaction %d (%s): %w", i+1, e.Name, err)
		}
	}
	return res, nil
}

// uniqueName returns name, or a dated variant of it, that is not in taken.
func uniqueName(taken map[string]bool, name string, date time.Time) string {
	if !taken[name] {
		return name
	}
	day := date.Format("01/02")
	candidate := fmt.Sprintf("%s (%s)", name, day)
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s (%s #%d)", name, day, n)
	}
	return candidate
}

// ImportFile parses one export with p and imports it.
func ImportFile(store Appender, p Parser, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := p.Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return Import(store, txns)
}
