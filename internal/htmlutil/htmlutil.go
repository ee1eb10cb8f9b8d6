package htmlutil

import (
	"bytes"
	"html/template"

	"github.com/k3a/html2text"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// md renders GitHub flavoured markdown. Raw HTML in the source is dropped
// (goldmark's default without html.WithUnsafe).
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown renders markdown source to HTML safe for embedding in a template.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// ToText flattens rendered HTML to plain text with Unix line breaks.
func ToText(html string) string {
	return html2text.HTML2TextWithOptions(html, html2text.WithUnixLineBreaks())
}
