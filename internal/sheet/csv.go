package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// csvWorkbook holds a CSV file as a single sheet named after the file stem.
type csvWorkbook struct {
	name string
	rows []Row
}

func readCSV(r io.Reader, filename string) (*csvWorkbook, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	wb := &csvWorkbook{
		name: strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
		rows: make([]Row, 0, len(records)),
	}
	for i, record := range records {
		if i == 0 && len(record) > 0 {
			// Spreadsheet exports often start with a byte order mark.
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
		}
		row := make(Row, len(record))
		for j, value := range record {
			row[j] = Classify(value)
		}
		wb.rows = append(wb.rows, row)
	}
	return wb, nil
}

func (w *csvWorkbook) SheetNames() []string {
	return []string{w.name}
}

func (w *csvWorkbook) Rows(name string) ([]Row, error) {
	if name != w.name {
		return nil, missingSheet(name, w.SheetNames())
	}
	return w.rows, nil
}

func (w *csvWorkbook) Close() error { return nil }
