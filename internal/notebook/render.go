package notebook

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/lox/bikedash/internal/htmlutil"
	"github.com/lox/bikedash/internal/metrics"
)

// Block is one rendered cell. Markdown blocks carry HTML, code blocks carry
// the literal source. Code is never executed.
type Block struct {
	Kind     Kind
	Source   string
	HTML     template.HTML // markdown only
	Language string        // code only
}

func (b Block) IsMarkdown() bool { return b.Kind == KindMarkdown }

func (b Block) IsCode() bool { return b.Kind == KindCode }

// Text returns the block as plain text.
func (b Block) Text() string {
	if b.Kind == KindMarkdown && b.HTML != "" {
		return strings.TrimSpace(htmlutil.ToText(string(b.HTML)))
	}
	return b.Source
}

// Render converts every cell to a Block, preserving order.
func Render(nb *Notebook) ([]Block, error) {
	blocks := make([]Block, 0, len(nb.Cells))
	for i, c := range nb.Cells {
		b := Block{Kind: c.Kind, Source: c.Source}
		switch c.Kind {
		case KindMarkdown:
			h, err := htmlutil.Markdown(c.Source)
			if err != nil {
				return nil, fmt.Errorf("render markdown cell %d: %w", i, err)
			}
			b.HTML = h
		case KindCode:
			b.Language = nb.Language
		}
		metrics.NotebookCells.WithLabelValues(string(c.Kind)).Inc()
		blocks = append(blocks, b)
	}
	return blocks, nil
}
