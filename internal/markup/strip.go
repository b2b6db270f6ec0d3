package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip converts raw markup into a flat text stream. Tags, comments and
// doctypes become a single space, character entities are decoded (&nbsp;
// turns into an ordinary space) and whitespace runs collapse to one space.
// A "<" that never closes before the end of input is kept as text.
//
// The output is stable under another application: entities that decode into
// tag-like text are stripped on a following pass, for any nesting depth.
func Strip(s string) string {
	out := Collapse(stripOnce(s))
	for strings.ContainsAny(out, "<&") {
		// A pass that changes the text never makes it longer.
		next := Collapse(stripOnce(out))
		if next == out {
			break
		}
		out = next
	}
	return out
}

// Collapse replaces every whitespace run (including U+00A0) with a single
// space and trims both ends.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripOnce(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))
	consumed := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// A strings.Reader only ends with io.EOF. Input the tokenizer
			// left unconsumed is an unterminated tag, kept as text.
			if consumed < len(s) {
				b.WriteString(html.UnescapeString(s[consumed:]))
			}
			return b.String()
		}
		consumed += len(z.Raw())
		if tt == html.TextToken {
			b.Write(z.Text())
		} else {
			b.WriteByte(' ')
		}
	}
}
