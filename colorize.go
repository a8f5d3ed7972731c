package cardprices

// Marker is the visual delta of a price against the previous observation of the same item.
type Marker int

const (
	NoMarker Marker = iota
	Up
	Down
	Neutral
)

func (m Marker) String() string {
	switch m {
	case Up:
		return "up"
	case Down:
		return "down"
	case Neutral:
		return "neutral"
	default:
		return "none"
	}
}

// Symbol returns a one character rendering of the marker.
func (m Marker) Symbol() string {
	switch m {
	case Up:
		return "▲"
	case Down:
		return "▼"
	case Neutral:
		return "="
	default:
		return ""
	}
}

// Style is the presentation of a single cell.
type Style struct {
	Marker   Marker
	Centered bool
}

// Compare returns the marker of cur relative to prev.
func Compare(prev, cur Price) Marker {
	switch cur.Cmp(prev) {
	case 1:
		return Up
	case -1:
		return Down
	default:
		return Neutral
	}
}

// Delta returns the marker of the cell (r, col) against the chronologically previous
// dated column. It is NoMarker when either side is absent, and a *ConversionError when
// either side does not read as a number.
func (m *Matrix) Delta(r *Row, col int) (Marker, error) {
	prevCol, ok := m.Previous(col)
	if !ok {
		return NoMarker, nil
	}
	return m.delta(r, prevCol, col)
}

func (m *Matrix) delta(r *Row, prevCol, col int) (Marker, error) {
	cur, ok, err := m.Price(r, col)
	if err != nil || !ok {
		return NoMarker, err
	}
	prev, ok, err := m.Price(r, prevCol)
	if err != nil || !ok {
		return NoMarker, err
	}
	return Compare(prev, cur), nil
}

// Colorize recomputes the marker of every price cell in every dated column.
//
// Dated columns are visited in chronological order and each one is compared to the one
// before it, the newest included. Cells that cannot be compared lose their marker. Price
// values are never modified.
//
// The returned errors are the *ConversionError of cells that were skipped.
func Colorize(m *Matrix) (skipped []error) {
	cols := m.DateColumns()
	for i, col := range cols {
		for j, r := range m.rows {
			marker := NoMarker
			if i > 0 {
				var err error
				if marker, err = m.delta(r, cols[i-1], col); err != nil {
					skipped = append(skipped, err)
				}
			}
			c := Cell{Row: j + 2, Col: col}
			s := m.Style(c)
			s.Marker = marker
			m.setStyle(c, s)
		}
	}
	return skipped
}
