package cardprices

import (
	"fmt"
	"slices"
	"sort"

	"github.com/etnz/cardprices/date"
)

// Default labels of the two fixed columns.
const (
	NameLabel     = "Nome da Carta"
	QuantityLabel = "Quantidade"
)

// Column numbers are 1-based, like spreadsheet columns.
const (
	NameColumn      = 1
	QuantityColumn  = 2
	FirstDateColumn = 3
)

// HeaderKind tells what a matrix column holds.
type HeaderKind int

const (
	HeaderBlank    HeaderKind = iota // no label, placeholder column
	HeaderName                       // item name, always column 1
	HeaderQuantity                   // latest quantity, always column 2
	HeaderDate                       // prices observed on one day
	HeaderUnknown                    // a label that is not a date, ignored by the merge
)

// Header describes a matrix column.
type Header struct {
	Kind  HeaderKind
	Label string
	Day   date.Date // chronological key of a dated column.
}

// DateHeader returns the header of the column holding prices observed on day.
func DateHeader(day date.Date) Header { return Header{Kind: HeaderDate, Label: day.Label(), Day: day} }

// ParseHeader classifies a header label found at a given column.
func ParseHeader(col int, label string) Header {
	switch {
	case label == "":
		return Header{Kind: HeaderBlank}
	case col == NameColumn:
		return Header{Kind: HeaderName, Label: label}
	case col == QuantityColumn:
		return Header{Kind: HeaderQuantity, Label: label}
	}
	if day, err := date.ParseLabel(label); err == nil {
		return Header{Kind: HeaderDate, Label: label, Day: day}
	}
	return Header{Kind: HeaderUnknown, Label: label}
}

// Row is the price history of a single item.
type Row struct {
	Name     string
	Quantity int
	prices   map[int]string // column -> raw cell text
}

// Cell returns the raw text stored in column col, and whether there is one.
func (r *Row) Cell(col int) (string, bool) {
	raw, ok := r.prices[col]
	return raw, ok
}

// Price returns the price stored in column col of row r.
//
// ok is false when the cell is absent. A present cell that does not read as a number returns a
// *ConversionError; the caller decides whether to treat it as absent.
func (m *Matrix) Price(r *Row, col int) (p Price, ok bool, err error) {
	raw, ok := r.prices[col]
	if !ok {
		return Price{}, false, nil
	}
	p, err = ParsePrice(raw)
	if err != nil {
		return Price{}, true, &ConversionError{Row: r.Name, Column: m.Header(col).Label, Value: raw, Err: err}
	}
	return p, true, nil
}

// Cell addresses a single cell of the matrix. Row 1 is the header row, item rows start at 2.
type Cell struct{ Row, Col int }

// Matrix is the wide-format price history: one row per item, one column per observation day.
type Matrix struct {
	headers []Header // headers[0] is column 1
	rows    []*Row
	index   map[string]int // row name -> rows index
	styles  map[Cell]Style
	sheet   string // sheet it was read from
}

// NewMatrix returns an empty, header-only matrix.
func NewMatrix() *Matrix {
	return &Matrix{
		headers: []Header{{Kind: HeaderName, Label: NameLabel}, {Kind: HeaderQuantity, Label: QuantityLabel}},
		index:   make(map[string]int),
		styles:  make(map[Cell]Style),
	}
}

// Sheet returns the name of the workbook sheet the matrix was read from, empty for a new matrix.
func (m *Matrix) Sheet() string { return m.sheet }

// NumColumns returns the number of columns, fixed columns included.
func (m *Matrix) NumColumns() int { return len(m.headers) }

// Len returns the number of item rows.
func (m *Matrix) Len() int { return len(m.rows) }

// Header returns the header of column col, or a blank header outside the matrix.
func (m *Matrix) Header(col int) Header {
	if col < 1 || col > len(m.headers) {
		return Header{Kind: HeaderBlank}
	}
	return m.headers[col-1]
}

// Headers returns a copy of all headers, in column order.
func (m *Matrix) Headers() []Header { return slices.Clone(m.headers) }

// Rows returns the item rows in their persisted order.
func (m *Matrix) Rows() []*Row { return m.rows }

// Row returns the row for item name.
func (m *Matrix) Row(name string) (*Row, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.rows[i], true
}

// RowNumber returns the sheet row number of an item row (header is row 1).
func (m *Matrix) RowNumber(name string) (int, bool) {
	i, ok := m.index[name]
	return i + 2, ok
}

// ColumnIsEmpty reports whether no item row has a value in column col.
func (m *Matrix) ColumnIsEmpty(col int) bool {
	for _, r := range m.rows {
		if _, ok := r.prices[col]; ok {
			return false
		}
	}
	return true
}

// DateColumns returns the dated columns in chronological order.
//
// Columns are sorted by their day; columns for the same day keep their physical order.
func (m *Matrix) DateColumns() []int {
	var cols []int
	for i, h := range m.headers {
		if h.Kind == HeaderDate {
			cols = append(cols, i+1)
		}
	}
	sort.SliceStable(cols, func(i, j int) bool {
		return m.headers[cols[i]-1].Day.Before(m.headers[cols[j]-1].Day)
	})
	return cols
}

// Previous returns the dated column chronologically just before col.
func (m *Matrix) Previous(col int) (int, bool) {
	cols := m.DateColumns()
	i := slices.Index(cols, col)
	if i <= 0 {
		return 0, false
	}
	return cols[i-1], true
}

// setHeader sets the header of col, growing the matrix when col is the next column.
func (m *Matrix) setHeader(col int, h Header) error {
	switch {
	case col < FirstDateColumn:
		return fmt.Errorf("%w: cannot set header of fixed column %d", ErrColumnResolution, col)
	case col == len(m.headers)+1:
		m.headers = append(m.headers, h)
		return nil
	case col > len(m.headers)+1:
		return fmt.Errorf("%w: column %d is beyond the next column %d", ErrColumnResolution, col, len(m.headers)+1)
	}
	current := m.headers[col-1]
	switch current.Kind {
	case HeaderBlank:
		m.headers[col-1] = h
		return nil
	case HeaderDate:
		if current.Label == h.Label {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot relabel column %d %q as %q", ErrColumnResolution, col, current.Label, h.Label)
}

// addRow appends a new item row. The name must not exist yet.
func (m *Matrix) addRow(name string, quantity int) (*Row, error) {
	if name == "" {
		return nil, fmt.Errorf("cannot add a row with an empty name")
	}
	if _, exists := m.index[name]; exists {
		return nil, fmt.Errorf("row %q already exists", name)
	}
	r := &Row{Name: name, Quantity: quantity, prices: make(map[int]string)}
	m.index[name] = len(m.rows)
	m.rows = append(m.rows, r)
	return r, nil
}

// Style returns the presentation of a cell.
func (m *Matrix) Style(c Cell) Style { return m.styles[c] }

func (m *Matrix) setStyle(c Cell, s Style) {
	if s == (Style{}) {
		delete(m.styles, c)
		return
	}
	m.styles[c] = s
}

// Styles returns a copy of the presentation of every styled cell.
func (m *Matrix) Styles() map[Cell]Style {
	styles := make(map[Cell]Style, len(m.styles))
	for c, s := range m.styles {
		styles[c] = s
	}
	return styles
}

// History returns the prices of item name, in chronological order.
//
// Cells that do not read as a number are reported in errs and left out.
func (m *Matrix) History(name string) (h *date.History[Price], errs []error, ok bool) {
	r, ok := m.Row(name)
	if !ok {
		return nil, nil, false
	}
	h = new(date.History[Price])
	for _, col := range m.DateColumns() {
		p, present, err := m.Price(r, col)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if present {
			h.Append(m.Header(col).Day, p)
		}
	}
	return h, errs, true
}
