package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/dtcscan/internal/markup"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown reports using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{Title: stem(filename)}
	titled := false
	var body bytes.Buffer
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		t := extractText(n, src)
		if t == "" {
			continue
		}
		// The first level-1 heading names the report.
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && !titled {
			doc.Title = markup.Strip(t)
			titled = true
		}
		body.WriteString(t)
		body.WriteByte('\n')
	}

	// Text segments keep character references; Strip decodes them.
	doc.Text = markup.Strip(body.String())
	return doc, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return buf.String()
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		// Recurse for nested blocks and inlines.
		buf.WriteByte(' ')
		buf.WriteString(extractText(c, src))
	}
	return buf.String()
}
