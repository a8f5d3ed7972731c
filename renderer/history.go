package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/cardprices"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the price history of a single card.
func HistoryMarkdown(m *cardprices.Matrix, name string) (string, error) {
	r, ok := m.Row(name)
	if !ok {
		return "", fmt.Errorf("unknown card %q", name)
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("History for %s", name))
	doc.PlainText(fmt.Sprintf("Quantity: %s", md.Bold(fmt.Sprint(r.Quantity))))
	if h, _, _ := m.History(name); h.Len() > 0 {
		day, p := h.Latest()
		doc.PlainText(fmt.Sprintf("Latest price: %s on %s", md.Bold(p.String()), day))
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignCenter},
		Header:    []string{"Date", "Price", "Delta"},
		Rows:      [][]string{},
	}
	for _, col := range m.DateColumns() {
		raw, ok := r.Cell(col)
		if !ok {
			continue
		}
		price := raw
		if p, _, err := m.Price(r, col); err == nil {
			price = p.String()
		}
		marker, _ := m.Delta(r, col)
		table.Rows = append(table.Rows, []string{m.Header(col).Day.String(), price, marker.Symbol()})
	}
	doc.Table(table)

	return doc.String(), nil
}
