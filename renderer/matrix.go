package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/cardprices"
	"github.com/etnz/cardprices/date"
	md "github.com/nao1215/markdown"
)

// MatrixMarkdown renders the matrix as a markdown table.
//
// Only dated columns whose day is in r are rendered, in chronological order. Markers are
// computed from the prices, not read from the stored presentation.
func MatrixMarkdown(m *cardprices.Matrix, r date.Range) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Card prices (%s)", r))

	var cols []int
	for _, col := range m.DateColumns() {
		if r.Contains(m.Header(col).Day) {
			cols = append(cols, col)
		}
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignCenter},
		Header:    []string{m.Header(cardprices.NameColumn).Label, m.Header(cardprices.QuantityColumn).Label},
		Rows:      [][]string{},
	}
	for _, col := range cols {
		table.Alignment = append(table.Alignment, md.AlignCenter)
		table.Header = append(table.Header, m.Header(col).Label)
	}
	for _, row := range m.Rows() {
		line := []string{row.Name, strconv.Itoa(row.Quantity)}
		for _, col := range cols {
			line = append(line, priceCell(m, row, col))
		}
		table.Rows = append(table.Rows, line)
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("%d cards, %d dates.", m.Len(), len(cols)))

	return doc.String()
}
