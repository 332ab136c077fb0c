package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/coincontrol-dev/coincontrol/internal/model"
)

const (
	numFields = 3
	colName   = 0
	colSign   = 1
	colAmount = 2
)

// ReadEntries reads every record from a month ledger. The file has no header.
// A line that is not exactly name,sign,amount fails the whole read with a
// *CorruptRecordError naming the line.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	var entries []model.Entry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &CorruptRecordError{Line: pe.StartLine, Err: pe.Err}
			}
			return nil, ioError("reading ledger", err)
		}

		line, _ := cr.FieldPos(colName)
		entry, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, &CorruptRecordError{Line: line, Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteEntries writes entries in order, one record per line.
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row. Amounts use the shortest
// decimal form that parses back to the same value ("1200", "12.5").
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colName] = e.Name
	row[colSign] = string(e.Sign)
	row[colAmount] = e.Amount.String()
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	name := record[colName]
	if name == "" {
		return model.Entry{}, fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	sign := model.Sign(record[colSign])
	if !sign.Valid() {
		return model.Entry{}, fmt.Errorf("%w %q", ErrInvalidSign, record[colSign])
	}

	// Stored amounts may come from older files written as "1200.0" or
	// "1.0E7"; decimal accepts both.
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	if amount.IsNegative() {
		return model.Entry{}, fmt.Errorf("%w: negative amount %q", ErrInvalidAmount, record[colAmount])
	}

	return model.Entry{Name: name, Sign: sign, Amount: amount}, nil
}

// encodeLine renders a single record including its trailing newline.
func encodeLine(e model.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteEntries(&buf, []model.Entry{e}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
