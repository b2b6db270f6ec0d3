package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/dtcscan/internal/markup"
)

// TextParser handles plain text report exports.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	// Report exports often put a whole record list on one line.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var text strings.Builder
	for scanner.Scan() {
		text.WriteString(scanner.Text())
		text.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	return &Document{
		Title: stem(filename),
		Text:  markup.Collapse(text.String()),
	}, nil
}
