// Package render exports a record collection as JSON, CSV, Markdown or HTML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/dtcscan/internal/dtc"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts a format name or a common alias ("md", "htm").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// ContentType returns the HTTP media type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/json"
}

// Write renders records in the given format. Title labels the Markdown and
// HTML reports.
func Write(w io.Writer, f Format, title string, records []dtc.Record) error {
	switch f {
	case FormatJSON:
		return JSON(w, records)
	case FormatCSV:
		return CSV(w, records)
	case FormatMarkdown:
		return Markdown(w, title, records)
	case FormatHTML:
		return HTML(w, title, records)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// JSON writes records as an indented JSON array. A nil collection is
// written as [].
func JSON(w io.Writer, records []dtc.Record) error {
	if records == nil {
		records = []dtc.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
