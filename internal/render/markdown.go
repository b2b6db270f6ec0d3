package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dgallion1/dtcscan/internal/dtc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown writes a report with a summary, a record table and a section per
// record that has reference or tracker data.
func Markdown(w io.Writer, title string, records []dtc.Record) error {
	var b strings.Builder

	if title == "" {
		title = "DTC report"
	}
	fmt.Fprintf(&b, "# %s\n\n", cell(title))

	complete := 0
	for _, r := range records {
		if r.Complete() {
			complete++
		}
	}
	fmt.Fprintf(&b, "%d records, %d with timestamp and odometer.\n\n", len(records), complete)
	if len(records) == 0 {
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("| ID | Code | Hex | Decimal | Description | Priority | Frequency | Status | Timestamp | Odometer |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			cell(r.ID), cell(r.SymbolicCode), cell(r.HexCode), cell(r.DecimalCode), cell(r.Description),
			cell(r.Priority), cell(r.Frequency), cell(r.Status), cell(r.Timestamp), cell(r.Odometer))
	}

	for _, r := range records {
		if r.Reference == nil && len(r.Tracker) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", cell(r.Headline()))
		if ref := r.Reference; ref != nil {
			b.WriteString("\n| Field | Value |\n|---|---|\n")
			fmt.Fprintf(&b, "| Suspension period | %s |\n", cell(ref.SuspensionPeriod))
			fmt.Fprintf(&b, "| Qualification time | %s |\n", cell(ref.QualificationTime))
			fmt.Fprintf(&b, "| Qualification condition | %s |\n", cell(ref.QualificationCondition))
			fmt.Fprintf(&b, "| Reset condition | %s |\n", cell(ref.ResetCondition))
			fmt.Fprintf(&b, "| Enable condition | %s |\n", cell(ref.EnableCondition))
		}
		if len(r.Tracker) > 0 {
			b.WriteString("\n| Created | Ticket | Description | Status | Fix |\n|---|---|---|---|---|\n")
			for _, e := range r.Tracker {
				link := cell(e.Link)
				if e.Link != "" {
					link = fmt.Sprintf("[%s](%s)", cell(e.Link), e.Link)
				}
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
					cell(e.CreationDate), link, cell(e.Description), cell(e.Status), cell(e.Fix))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// cell escapes a value for a Markdown table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.NewReplacer("|", `\|`, "<", "&lt;", ">", "&gt;").Replace(s)
}

var markdownHTML = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Linkify))

// HTML renders the Markdown report as a standalone HTML page.
func HTML(w io.Writer, title string, records []dtc.Record) error {
	var md bytes.Buffer
	if err := Markdown(&md, title, records); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := markdownHTML.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if title == "" {
		title = "DTC report"
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body.String())
	return err
}
