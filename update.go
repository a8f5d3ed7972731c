package cardprices

import (
	"fmt"
	"log/slog"
)

// Updater runs the merge pipeline on a matrix workbook.
type Updater struct {
	MatrixFile string
	Sheet      string // DefaultSheet if empty
	Resolver   Resolver
	Logger     *slog.Logger // slog.Default() if nil
}

// Report describes what an update did.
type Report struct {
	Resolution
	MergeStats
	Rows        int // rows in the matrix after the merge
	Unconverted int // cells left without a marker because they could not be converted
}

func (u *Updater) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}

func (u *Updater) sheet() string {
	if u.Sheet == "" {
		return DefaultSheet
	}
	return u.Sheet
}

// Update merges s into the matrix workbook.
//
// Prices are saved first, then markers and alignment are recomputed and saved again. If the
// second save fails, prices are durable and Recolor can be run later.
func (u *Updater) Update(s *Snapshot) (rep Report, err error) {
	log := u.logger().With("matrix", u.MatrixFile, "day", s.Day().String())

	if s.Total != 0 && s.Total != len(s.Items) {
		log.Warn("snapshot item count differs from its announced total", "total", s.Total, "items", len(s.Items))
	}

	m, err := u.load()
	if err != nil {
		return rep, err
	}
	log.Debug("matrix loaded", "sheet", m.Sheet(), "rows", m.Len(), "columns", m.NumColumns())

	if rep.Resolution, err = u.Resolver.Resolve(m, s.Day()); err != nil {
		return rep, fmt.Errorf("cannot merge snapshot of %s into %q: %w", s.Day(), u.MatrixFile, err)
	}
	log.Info("column resolved", "column", rep.Column, "label", rep.Header.Label, "placement", rep.Placement.String())

	if rep.MergeStats, err = Merge(m, rep.Resolution, s); err != nil {
		return rep, fmt.Errorf("cannot merge snapshot of %s into %q: %w", s.Day(), u.MatrixFile, err)
	}
	rep.Rows = m.Len()
	log.Info("snapshot merged", "added", rep.Added, "updated", rep.Updated, "skipped", rep.Skipped)

	if err := u.save(m); err != nil {
		return rep, err
	}

	rep.Unconverted, err = u.present(m)
	return rep, err
}

// Recolor recomputes markers and alignment of the matrix workbook and saves it.
func (u *Updater) Recolor() (unconverted int, err error) {
	m, err := u.load()
	if err != nil {
		return 0, err
	}
	return u.present(m)
}

// load reads the matrix workbook.
func (u *Updater) load() (*Matrix, error) {
	m, err := DecodeMatrix(u.MatrixFile, u.sheet())
	if err != nil {
		return nil, err
	}
	if m.Sheet() != u.sheet() {
		u.logger().Warn("sheet not found, using the active sheet", "matrix", u.MatrixFile, "sheet", u.sheet(), "active", m.Sheet())
	}
	return m, nil
}

// save writes m back into the sheet it was read from.
func (u *Updater) save(m *Matrix) error {
	sheet := m.Sheet()
	if sheet == "" {
		sheet = u.sheet()
	}
	return EncodeMatrix(u.MatrixFile, sheet, m)
}

// present colorizes, aligns and saves m.
func (u *Updater) present(m *Matrix) (int, error) {
	skipped := Colorize(m)
	for _, err := range skipped {
		u.logger().Warn("price cell skipped", "matrix", u.MatrixFile, "error", err)
	}
	Align(m)
	if err := u.save(m); err != nil {
		return len(skipped), err
	}
	u.logger().Info("matrix saved", "matrix", u.MatrixFile, "rows", m.Len(), "columns", m.NumColumns())
	return len(skipped), nil
}
