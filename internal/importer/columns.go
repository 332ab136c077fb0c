package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// layout describes a bank export by its header names, so exports with
// reordered or extra columns still parse.
type layout struct {
	format     string
	dateLayout string
	date       string
	desc       string
	amount     string
	kind       string // optional
}

// row is one data line with its columns already located.
type row struct {
	num    int // 1-based line number including the header
	date   time.Time
	desc   string
	amount decimal.Decimal
	kind   string
}

// rows reads the header, locates the layout's columns and parses every data
// line. An empty input or a header alone yields no rows.
func (l layout) rows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", l.format, err)
	}
	idx, err := l.locate(header)
	if err != nil {
		return nil, err
	}

	var out []row
	for num := 2; ; num++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s CSV: %w", l.format, err)
		}

		date, err := time.Parse(l.dateLayout, strings.TrimSpace(rec[idx[l.date]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", num, rec[idx[l.date]], err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[idx[l.amount]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", num, rec[idx[l.amount]], err)
		}
		rw := row{
			num:    num,
			date:   date,
			desc:   strings.Join(strings.Fields(rec[idx[l.desc]]), " "),
			amount: amount,
		}
		if i, ok := idx[l.kind]; ok {
			rw.kind = rec[i]
		}
		out = append(out, rw)
	}
}

// locate maps the layout's header names to column positions. Matching is
// case-insensitive and ignores a leading byte order mark.
func (l layout) locate(header []string) (map[string]int, error) {
	found := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		found[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idx := make(map[string]int, 4)
	for _, name := range []string{l.date, l.desc, l.amount} {
		i, ok := found[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%s CSV: missing column %q", l.format, name)
		}
		idx[name] = i
	}
	if l.kind != "" {
		if i, ok := found[strings.ToLower(l.kind)]; ok {
			idx[l.kind] = i
		}
	}
	return idx, nil
}

// refPrefix keeps the first ten ASCII letters and digits of desc.
func refPrefix(desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return prefix
}
