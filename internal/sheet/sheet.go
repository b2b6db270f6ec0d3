package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrSheetNotFound is returned when a workbook has no sheet with the
// requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is a decoded tabular file.
type Workbook interface {
	// SheetNames lists sheets in workbook order.
	SheetNames() []string
	// Rows returns every row of the named sheet, header included.
	Rows(name string) ([]Row, error)
	Close() error
}

// SupportedExtensions lists dataset file extensions Open can decode.
var SupportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
}

// Open decodes a dataset file, choosing the decoder from the file extension.
func Open(r io.Reader, filename string) (Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		wb, err := openXLSX(r)
		if err != nil {
			return nil, err
		}
		return wb, nil
	case ".csv":
		wb, err := readCSV(r, filename)
		if err != nil {
			return nil, err
		}
		return wb, nil
	default:
		return nil, fmt.Errorf("unsupported dataset extension: %s", ext)
	}
}

// IsSupportedExtension checks if a dataset file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// FirstSheet returns the rows of the first sheet of wb.
func FirstSheet(wb Workbook) ([]Row, error) {
	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}
	return wb.Rows(names[0])
}

func missingSheet(name string, available []string) error {
	return fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, name, strings.Join(available, ", "))
}
