package cardprices

import (
	"testing"
	"time"

	"github.com/etnz/cardprices/date"
)

// snap is a helper for test to create a snapshot taken on an ISO day.
func snap(day string, items ...Item) *Snapshot {
	d := date.MustParse(day)
	return &Snapshot{
		ExtractedAt: time.Date(d.Year(), d.Month(), d.Day(), 14, 3, 0, 0, time.UTC),
		Items:       items,
	}
}

// item is a helper for test to create an item from a scraper price text.
func item(name string, quantity int, price string) Item {
	return Item{Name: name, Quantity: quantity, Price: MustParsePrice(price)}
}

// mergeAll merges the snapshots one after the other with the default resolver.
func mergeAll(t *testing.T, m *Matrix, snapshots ...*Snapshot) {
	t.Helper()
	for _, s := range snapshots {
		res, err := Resolver{}.Resolve(m, s.Day())
		if err != nil {
			t.Fatalf("Resolve(%v) error = %v", s.Day(), err)
		}
		if _, err := Merge(m, res, s); err != nil {
			t.Fatalf("Merge(%v) error = %v", s.Day(), err)
		}
	}
}

// cell returns the raw text of a card's cell in the column labeled label.
func cell(t *testing.T, m *Matrix, name, label string) (string, bool) {
	t.Helper()
	r, ok := m.Row(name)
	if !ok {
		t.Fatalf("row %q not found", name)
	}
	for col, h := range m.Headers() {
		if h.Label == label {
			return r.Cell(col + 1)
		}
	}
	t.Fatalf("column %q not found", label)
	return "", false
}

// column returns the column number of the header labeled label.
func column(t *testing.T, m *Matrix, label string) int {
	t.Helper()
	for col, h := range m.Headers() {
		if h.Label == label {
			return col + 1
		}
	}
	t.Fatalf("column %q not found", label)
	return 0
}
