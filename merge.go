package cardprices

import "fmt"

// MergeStats counts what a merge did to the matrix rows.
type MergeStats struct {
	Added   int // new rows
	Updated int // existing rows that received a price
	Skipped int // existing cells left untouched
}

// Merge upserts the snapshot items into the resolved column of m, in snapshot order.
//
// An existing row gets the item's quantity and, if the cell is still absent, its price. A new
// name appends a row. Price cells written by a previous merge are never overwritten; within
// the same snapshot the last occurrence of a name wins.
func Merge(m *Matrix, res Resolution, s *Snapshot) (stats MergeStats, err error) {
	if res.Header.Kind != HeaderDate {
		return stats, fmt.Errorf("%w: column %d is not a dated column", ErrColumnResolution, res.Column)
	}
	if err := m.setHeader(res.Column, res.Header); err != nil {
		return stats, err
	}

	written := make(map[*Row]bool)
	for _, item := range s.Items {
		r, exists := m.Row(item.Name)
		if !exists {
			if r, err = m.addRow(item.Name, item.Quantity); err != nil {
				return stats, err
			}
			stats.Added++
		} else {
			r.Quantity = item.Quantity
			if _, present := r.prices[res.Column]; present && !written[r] {
				stats.Skipped++
				continue
			}
			if !written[r] {
				stats.Updated++
			}
		}
		r.prices[res.Column] = item.Price.String()
		written[r] = true
	}
	return stats, nil
}
