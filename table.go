package folio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bfonseca/folio/date"
)

// CellKind is the type of a report table cell.
type CellKind int

const (
	StringCell CellKind = iota
	NumberCell
	DateCell
)

// Cell is one typed value of a report table. The spreadsheet sink consumes
// tables as rectangular grids of these.
type Cell struct {
	Kind CellKind

	Str  string
	Num  float64
	Date date.Date

	// decimals is the display rounding of a number cell; -1 keeps all
	// digits.
	decimals int
}

// Text renders the cell for CSV export.
func (c Cell) Text() string {
	switch c.Kind {
	case NumberCell:
		return strconv.FormatFloat(c.Num, 'f', c.decimals, 64)
	case DateCell:
		return c.Date.String()
	default:
		return c.Str
	}
}

// Str returns a string cell.
func Str(s string) Cell { return Cell{Kind: StringCell, Str: s} }

// Num returns a number cell keeping all digits.
func Num(v float64) Cell { return Cell{Kind: NumberCell, Num: v, decimals: -1} }

// Amount returns a number cell rounded to the currency minor unit of m.
// Rounding happens here, at the presentation boundary, and nowhere else.
func Amount(m Money) Cell { return Cell{Kind: NumberCell, Num: m.Rounded(), decimals: 2} }

// Day returns a date cell.
func Day(d date.Date) Cell { return Cell{Kind: DateCell, Date: d} }

// Table is a columnar report grid: a header row plus typed cells, with a
// column ordering that is stable across runs so exported output diffs
// cleanly.
type Table struct {
	Name   string
	Header []string
	Rows   [][]Cell
}

// Append adds a row. The row must match the header width.
func (t *Table) Append(cells ...Cell) {
	if len(cells) != len(t.Header) {
		panic(fmt.Sprintf("table %s: row of %d cells, want %d", t.Name, len(cells), len(t.Header)))
	}
	t.Rows = append(t.Rows, cells)
}

// WriteCSV exports the table, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	row := make([]string, len(t.Header))
	for _, cells := range t.Rows {
		for i, c := range cells {
			row[i] = c.Text()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
