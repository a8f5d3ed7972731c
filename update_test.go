package cardprices

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"
)

func newTestUpdater(t *testing.T) *Updater {
	t.Helper()
	return &Updater{
		MatrixFile: filepath.Join(t.TempDir(), "output", "output.xlsx"),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestUpdate(t *testing.T) {
	u := newTestUpdater(t)

	rep, err := u.Update(snap("2025-06-01", item("Bolt", 4, "0,10"), item("Island", 20, "0,05")))
	if err != nil {
		t.Fatalf("Update() first error = %v", err)
	}
	if rep.Column != FirstDateColumn || rep.Placement != Append || rep.Added != 2 || rep.Rows != 2 {
		t.Errorf("Update() first = %+v, want a new column 3 with 2 new rows", rep)
	}

	rep, err = u.Update(snap("2025-06-02", item("Bolt", 3, "0.15"), item("Island", 20, "0,05")))
	if err != nil {
		t.Fatalf("Update() second error = %v", err)
	}
	if rep.Column != 4 || rep.Updated != 2 || rep.Added != 0 {
		t.Errorf("Update() second = %+v, want column 4 with 2 updated rows", rep)
	}

	m, err := DecodeMatrix(u.MatrixFile, DefaultSheet)
	if err != nil {
		t.Fatalf("DecodeMatrix() error = %v", err)
	}
	bolt, _ := m.RowNumber("Bolt")
	island, _ := m.RowNumber("Island")
	tests := []struct {
		cell Cell
		want Style
	}{
		{Cell{Row: bolt, Col: 3}, Style{Centered: true}},
		{Cell{Row: bolt, Col: 4}, Style{Marker: Up, Centered: true}},
		{Cell{Row: island, Col: 4}, Style{Marker: Neutral, Centered: true}},
		{Cell{Row: 1, Col: 2}, Style{Centered: true}},
		{Cell{Row: bolt, Col: NameColumn}, Style{}},
	}
	for _, test := range tests {
		if got := m.Style(test.cell); got != test.want {
			t.Errorf("Style(%+v) = %+v, want %+v", test.cell, got, test.want)
		}
	}
	if r, _ := m.Row("Bolt"); r.Quantity != 3 {
		t.Errorf("Bolt quantity = %d, want 3", r.Quantity)
	}
}

func TestUpdateSheet1Workbook(t *testing.T) {
	// A workbook saved by another tool names its only sheet Sheet1.
	u := newTestUpdater(t)
	u.MatrixFile = filepath.Join(t.TempDir(), "output.xlsx")
	writeSheets(t, u.MatrixFile, sheet{"Sheet1", [][]any{
		{"Nome da Carta", "Quantidade", "09/01/2024"},
		{"Bolt", 4, 1.25},
	}})

	rep, err := u.Update(snap("2024-01-10", item("Bolt", 4, "1,50")))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if rep.Column != 4 || rep.Placement != Append || rep.Added != 0 {
		t.Errorf("Update() = %+v, want a new column 4 and no new row", rep)
	}

	names, _, rows := readSheets(t, u.MatrixFile, "Sheet1")
	if !slices.Equal(names, []string{"Sheet1"}) {
		t.Errorf("sheets = %q, want only Sheet1", names)
	}
	if len(rows) != 2 || len(rows[1]) != 4 || rows[1][2] != "1.25" || rows[1][3] != "1.5" {
		t.Errorf("Sheet1 rows = %q, want Bolt with 1.25 and 1.5", rows)
	}
}

func TestUpdateDuplicateDay(t *testing.T) {
	u := newTestUpdater(t)
	if _, err := u.Update(snap("2025-06-01", item("Bolt", 4, "0.10"))); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	_, err := u.Update(snap("2025-06-01", item("Bolt", 4, "0.20")))
	if !errors.Is(err, ErrDuplicateDate) {
		t.Fatalf("Update() same day error = %v, want ErrDuplicateDate", err)
	}

	u.Resolver.Policy = Reuse
	rep, err := u.Update(snap("2025-06-01", item("Bolt", 4, "0.20"), item("Forest", 1, "0.30")))
	if err != nil {
		t.Fatalf("Update() with reuse error = %v", err)
	}
	if rep.Placement != ReuseDate || rep.Skipped != 1 || rep.Added != 1 {
		t.Errorf("Update() with reuse = %+v, want the dated column reused, Bolt skipped and Forest added", rep)
	}
	m, err := DecodeMatrix(u.MatrixFile, DefaultSheet)
	if err != nil {
		t.Fatalf("DecodeMatrix() error = %v", err)
	}
	if got, _ := cell(t, m, "Bolt", "01/06/2025"); got != "0.1" {
		t.Errorf("Bolt price = %q, want the first observation 0.1", got)
	}
}

func TestUpdateTotalMismatch(t *testing.T) {
	u := newTestUpdater(t)
	s := snap("2025-06-01", item("Bolt", 4, "0.10"))
	s.Total = 3
	rep, err := u.Update(s)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if rep.Rows != 1 {
		t.Errorf("Update() rows = %d, want 1", rep.Rows)
	}
}

func TestRecolor(t *testing.T) {
	u := newTestUpdater(t)
	m := NewMatrix()
	mergeAll(t, m,
		snap("2025-06-01", item("Bolt", 4, "0.20")),
		snap("2025-06-02", item("Bolt", 4, "0.10")),
	)
	if err := EncodeMatrix(u.MatrixFile, DefaultSheet, m); err != nil {
		t.Fatalf("EncodeMatrix() error = %v", err)
	}

	unconverted, err := u.Recolor()
	if err != nil {
		t.Fatalf("Recolor() error = %v", err)
	}
	if unconverted != 0 {
		t.Errorf("Recolor() unconverted = %d, want 0", unconverted)
	}
	got, err := DecodeMatrix(u.MatrixFile, DefaultSheet)
	if err != nil {
		t.Fatalf("DecodeMatrix() error = %v", err)
	}
	if s := got.Style(Cell{Row: 1, Col: 4}); s != (Style{Centered: true}) {
		t.Errorf("header style = %+v, want centered", s)
	}
	if s := got.Style(Cell{Row: 2, Col: 4}); s.Marker != Down {
		t.Errorf("Bolt second price marker = %v, want %v", s.Marker, Down)
	}
}

func TestRecolorMissingMatrix(t *testing.T) {
	u := newTestUpdater(t)
	if _, err := u.Recolor(); err != nil {
		t.Fatalf("Recolor() on a missing matrix error = %v", err)
	}
}
