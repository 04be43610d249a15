// Package markdown inspects project documents. Documents must open with a
// level-1 heading, which the site theme uses as the page title.
package markdown

import (
	"bytes"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Title returns the text of the document's leading level-1 heading. ok is
// false when the first block is anything else, including a lower heading.
func Title(src []byte) (string, bool) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	first := doc.FirstChild()
	h, isHeading := first.(*ast.Heading)
	if !isHeading || h.Level != 1 {
		return "", false
	}
	return headingText(h, src), true
}

// TitleFromFile reads path and applies Title.
func TitleFromFile(path string) (string, bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	title, ok := Title(src)
	return title, ok, nil
}

func headingText(h *ast.Heading, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
