package sheet

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"
)

type xlsxWorkbook struct {
	f *excelize.File
}

func openXLSX(r io.Reader) (*xlsxWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	return &xlsxWorkbook{f: f}, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

func (w *xlsxWorkbook) Rows(name string) ([]Row, error) {
	names := w.f.GetSheetList()
	if !slices.Contains(names, name) {
		return nil, missingSheet(name, names)
	}

	// Raw values keep date cells as serial day numbers.
	raw, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	rows := make([]Row, 0, len(raw))
	for i, values := range raw {
		row := make(Row, len(values))
		for j, v := range values {
			row[j] = w.cell(name, j+1, i+1, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cell classifies one value using the stored cell type, so a number typed
// in as text stays text.
func (w *xlsxWorkbook) cell(sheetName string, col, row int, value string) Cell {
	if value == "" {
		return Cell{}
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Classify(value)
	}
	typ, err := w.f.GetCellType(sheetName, axis)
	if err != nil {
		return Classify(value)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeBool, excelize.CellTypeError:
		return TextCell(value)
	}
	return Classify(value)
}

func (w *xlsxWorkbook) Close() error {
	return w.f.Close()
}
