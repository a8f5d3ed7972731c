package renderer

import (
	"github.com/etnz/cardprices"
)

// priceCell formats a price cell followed by its marker symbol.
//
// Cells that do not read as a number are shown as stored.
func priceCell(m *cardprices.Matrix, r *cardprices.Row, col int) string {
	raw, ok := r.Cell(col)
	if !ok {
		return ""
	}
	p, _, err := m.Price(r, col)
	if err != nil {
		return raw
	}
	marker, err := m.Delta(r, col)
	if err != nil || marker == cardprices.NoMarker {
		return p.String()
	}
	return p.String() + " " + marker.Symbol()
}
