package cardprices

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// This file contains code to persist the matrix in an xlsx workbook.
//
// The sheet layout is the matrix itself: row 1 holds the headers, each following row an item.
// Cell styles carry the presentation (markers as fill colors, centered alignment). They are
// read back on decode, so that a plain load/save cycle keeps them.
//
// The matrix owns a single sheet of the workbook. Encode rebuilds that sheet and keeps every
// other sheet as it was. The workbook is written into a temporary file next to the target, and
// renamed over the target: readers never see a partially written file.

// DefaultSheet is the name of the sheet holding the matrix.
const DefaultSheet = "Preços"

// Fill colors of the markers.
var markerColors = map[Marker]string{
	Up:      "C6EFCE", // green
	Down:    "FFC7CE", // red
	Neutral: "FFEB9C", // yellow
}

const (
	priceNumFmt = 2 // builtin "0.00"
	nameWidth   = 40
)

// DecodeMatrix reads the matrix stored in sheet of the workbook filename.
//
// A missing file is an empty matrix. When the workbook has no such sheet, the active sheet is
// read instead if it holds a matrix (workbooks written before the sheet was named), otherwise
// the matrix is empty. Matrix.Sheet tells which sheet was read. An empty sheet is DefaultSheet.
func DecodeMatrix(filename, sheet string) (*Matrix, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		m := NewMatrix()
		m.sheet = sheet
		return m, nil
	}
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %q: %w", ErrPersistence, filename, err)
	}
	defer f.Close()

	m, err := decodeMatrix(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPersistence, filename, err)
	}
	return m, nil
}

func decodeMatrix(f *excelize.File, sheet string) (*Matrix, error) {
	i, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("invalid sheet name %q: %w", sheet, err)
	}
	if i < 0 {
		active := f.GetSheetName(f.GetActiveSheetIndex())
		if !isMatrixSheet(f, active) {
			m := NewMatrix()
			m.sheet = sheet
			return m, nil
		}
		sheet = active
	}
	lines, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheet, err)
	}
	if len(lines) == 0 {
		m := NewMatrix()
		m.sheet = sheet
		return m, nil
	}

	width := QuantityColumn
	for _, line := range lines {
		width = max(width, len(line))
	}

	m := &Matrix{index: make(map[string]int), styles: make(map[Cell]Style), sheet: sheet}
	for col := 1; col <= width; col++ {
		m.headers = append(m.headers, ParseHeader(col, cellText(lines[0], col)))
	}

	sheetRows := []int{1} // sheet row of each matrix row, header first
	for i, line := range lines[1:] {
		rowNumber := i + 2
		name := cellText(line, NameColumn)
		if name == "" {
			if strings.TrimSpace(strings.Join(line, "")) == "" {
				continue // empty line
			}
			return nil, fmt.Errorf("row %d: missing the item name", rowNumber)
		}
		quantity, err := decodeQuantity(cellText(line, QuantityColumn))
		if err != nil {
			return nil, fmt.Errorf("row %d %q: %w", rowNumber, name, err)
		}
		r, err := m.addRow(name, quantity)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNumber, err)
		}
		sheetRows = append(sheetRows, rowNumber)
		for col := FirstDateColumn; col <= len(line); col++ {
			if raw := cellText(line, col); raw != "" {
				r.prices[col] = raw
			}
		}
	}

	if err := decodeStyles(f, sheet, m, sheetRows); err != nil {
		return nil, err
	}
	return m, nil
}

// isMatrixSheet reports whether sheet starts with a matrix header row: a name and a quantity
// header, then the name label or at least one dated column.
func isMatrixSheet(f *excelize.File, sheet string) bool {
	if sheet == "" {
		return false
	}
	lines, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil || len(lines) == 0 {
		return false
	}
	header := lines[0]
	if cellText(header, NameColumn) == "" || cellText(header, QuantityColumn) == "" {
		return false
	}
	if cellText(header, NameColumn) == NameLabel {
		return true
	}
	for col := FirstDateColumn; col <= len(header); col++ {
		if ParseHeader(col, cellText(header, col)).Kind == HeaderDate {
			return true
		}
	}
	return false
}

// cellText returns the trimmed text of column col (1-based) in line.
func cellText(line []string, col int) string {
	if col > len(line) {
		return ""
	}
	return strings.TrimSpace(line[col-1])
}

func decodeQuantity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if q, err := strconv.Atoi(s); err == nil {
		return q, nil
	}
	// numbers can be stored as "4.0"
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int(v)) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return int(v), nil
}

// decodeStyles reads back the presentation of every cell of the matrix.
//
// sheetRows[i] is the sheet row of the matrix row i+1, they differ when empty lines were skipped.
func decodeStyles(f *excelize.File, sheet string, m *Matrix, sheetRows []int) error {
	known := make(map[int]Style)
	for i, sheetRow := range sheetRows {
		row := i + 1
		for col := 1; col <= m.NumColumns(); col++ {
			name, err := excelize.CoordinatesToCellName(col, sheetRow)
			if err != nil {
				return err
			}
			id, err := f.GetCellStyle(sheet, name)
			if err != nil {
				return fmt.Errorf("cannot read style of %s: %w", name, err)
			}
			if id == 0 {
				continue
			}
			s, ok := known[id]
			if !ok {
				xs, err := f.GetStyle(id)
				if err != nil {
					return fmt.Errorf("cannot read style %d of %s: %w", id, name, err)
				}
				s = styleOf(xs)
				known[id] = s
			}
			m.setStyle(Cell{Row: row, Col: col}, s)
		}
	}
	return nil
}

// styleOf maps a workbook style back to a cell Style.
func styleOf(xs *excelize.Style) (s Style) {
	if xs == nil {
		return s
	}
	if xs.Alignment != nil && xs.Alignment.Horizontal == "center" {
		s.Centered = true
	}
	for _, color := range xs.Fill.Color {
		color = strings.ToUpper(strings.TrimPrefix(color, "#"))
		if len(color) > 6 {
			color = color[len(color)-6:] // drop the alpha channel
		}
		for marker, c := range markerColors {
			if c == color {
				s.Marker = marker
			}
		}
	}
	return s
}

// EncodeMatrix writes m into sheet of the workbook filename, creating the workbook if needed.
//
// The sheet is rebuilt from m, in place of the previous one. Other sheets are kept. An empty
// sheet is DefaultSheet.
func EncodeMatrix(filename, sheet string, m *Matrix) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f, created, err := openWorkbook(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer f.Close()

	if created {
		// a new workbook has a single empty sheet.
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("%w: %s: cannot name sheet %q: %w", ErrPersistence, filename, sheet, err)
		}
		err = encodeMatrix(f, sheet, m)
	} else {
		err = replaceSheet(f, sheet, func(name string) error { return encodeMatrix(f, name, m) })
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersistence, filename, err)
	}
	if err := writeFile(filename, func(w io.Writer) error { return f.Write(w) }); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// styleKey identifies a workbook style.
type styleKey struct {
	Style
	header  bool
	numeric bool
}

// openWorkbook opens filename, or returns a new workbook if it does not exist.
func openWorkbook(filename string) (f *excelize.File, created bool, err error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	f, err = excelize.OpenFile(filename)
	if err != nil {
		return nil, false, fmt.Errorf("cannot open %q: %w", filename, err)
	}
	return f, false, nil
}

// replaceSheet builds a new sheet with write, then puts it in place of sheet: same name, same
// position, still active if it was. A missing sheet is added after the others.
func replaceSheet(f *excelize.File, sheet string, write func(name string) error) error {
	old, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("invalid sheet name %q: %w", sheet, err)
	}

	tmp := "cps"
	for n := 1; ; n++ {
		if i, _ := f.GetSheetIndex(tmp); i < 0 {
			break
		}
		tmp = fmt.Sprintf("cps%d", n)
	}
	if _, err := f.NewSheet(tmp); err != nil {
		return fmt.Errorf("cannot create sheet %q: %w", tmp, err)
	}
	if err := write(tmp); err != nil {
		return err
	}

	if old >= 0 {
		active := f.GetActiveSheetIndex() == old
		if err := f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("cannot delete sheet %q: %w", sheet, err)
		}
		// the sheet that followed the old one now sits at its index.
		if next := f.GetSheetName(old); next != tmp {
			if err := f.MoveSheet(tmp, next); err != nil {
				return fmt.Errorf("cannot move sheet %q: %w", sheet, err)
			}
		}
		if active {
			f.SetActiveSheet(old)
		}
	}
	if err := f.SetSheetName(tmp, sheet); err != nil {
		return fmt.Errorf("cannot name sheet %q: %w", sheet, err)
	}
	return nil
}

// encodeMatrix writes m into the empty sheet.
func encodeMatrix(f *excelize.File, sheet string, m *Matrix) error {
	styles := make(map[styleKey]int)
	styleID := func(k styleKey) (int, error) {
		if id, ok := styles[k]; ok {
			return id, nil
		}
		xs := &excelize.Style{}
		if k.Centered {
			xs.Alignment = &excelize.Alignment{Horizontal: "center"}
		}
		if color, ok := markerColors[k.Marker]; ok {
			xs.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#" + color}}
		}
		if k.header {
			xs.Font = &excelize.Font{Bold: true}
		}
		if k.numeric {
			xs.NumFmt = priceNumFmt
		}
		id, err := f.NewStyle(xs)
		if err != nil {
			return 0, err
		}
		styles[k] = id
		return id, nil
	}

	set := func(row, col int, value any, numeric bool) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		switch v := value.(type) {
		case nil:
		case string:
			err = f.SetCellStr(sheet, cell, v)
		case float64:
			err = f.SetCellFloat(sheet, cell, v, -1, 64)
		default:
			err = f.SetCellValue(sheet, cell, v)
		}
		if err != nil {
			return fmt.Errorf("cannot write %s: %w", cell, err)
		}
		k := styleKey{Style: m.Style(Cell{Row: row, Col: col}), header: row == 1, numeric: numeric}
		if k == (styleKey{}) {
			return nil
		}
		id, err := styleID(k)
		if err != nil {
			return fmt.Errorf("cannot create style of %s: %w", cell, err)
		}
		return f.SetCellStyle(sheet, cell, cell, id)
	}

	for col, h := range m.headers {
		if err := set(1, col+1, h.Label, false); err != nil {
			return err
		}
	}

	for i, r := range m.rows {
		row := i + 2
		if err := set(row, NameColumn, r.Name, false); err != nil {
			return err
		}
		if err := set(row, QuantityColumn, r.Quantity, false); err != nil {
			return err
		}
		for col := FirstDateColumn; col <= m.NumColumns(); col++ {
			raw, ok := r.prices[col]
			if !ok {
				if err := set(row, col, nil, false); err != nil {
					return err
				}
				continue
			}
			if p, err := ParsePrice(raw); err == nil {
				err = set(row, col, p.InexactFloat64(), true)
				if err != nil {
					return err
				}
				continue
			}
			if err := set(row, col, raw, false); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(sheet, "A", "A", nameWidth)
}

// writeFile writes filename through a temporary file renamed over it on success.
func writeFile(filename string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create folder %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create a temporary file in %q: %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return fmt.Errorf("cannot write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("cannot sync %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot close %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("cannot replace %q: %w", filename, err)
	}
	return nil
}
