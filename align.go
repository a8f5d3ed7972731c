package cardprices

// Align centers every cell of every column but the name column, header row included.
//
// Align is idempotent.
func Align(m *Matrix) {
	for col := NameColumn + 1; col <= m.NumColumns(); col++ {
		for row := 1; row <= m.Len()+1; row++ {
			c := Cell{Row: row, Col: col}
			s := m.Style(c)
			s.Centered = true
			m.setStyle(c, s)
		}
	}
}
