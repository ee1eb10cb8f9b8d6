package notebook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// DefaultPath is where the analysis notebook lives, relative to the working
// directory.
const DefaultPath = "../notebook.ipynb"

// ErrMissingNotebook is returned by Open when the notebook file is absent.
var ErrMissingNotebook = errors.New("notebook not found")

// Kind is the cell type. Only markdown and code cells are shown.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindCode     Kind = "code"
)

// Cell is one notebook cell.
type Cell struct {
	Kind   Kind
	Source string
}

// Notebook is the ordered cells of an .ipynb document.
type Notebook struct {
	Cells    []Cell
	Language string // kernel language, e.g. "python"
	Skipped  int    // raw or unknown cells not shown
}

// Open reads and parses the notebook at path.
func Open(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingNotebook, path)
		}
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	return Parse(data)
}

// Parse decodes nbformat JSON. Cell sources may be a string or a list of
// line strings.
func Parse(data []byte) (*Notebook, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("notebook is not valid UTF-8")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("notebook is not valid JSON")
	}

	doc := gjson.ParseBytes(data)
	cells := doc.Get("cells")
	if !cells.IsArray() {
		return nil, errors.New("notebook has no cells array")
	}

	nb := &Notebook{Language: language(doc)}
	cells.ForEach(func(_, cell gjson.Result) bool {
		kind := Kind(cell.Get("cell_type").String())
		switch kind {
		case KindMarkdown, KindCode:
			nb.Cells = append(nb.Cells, Cell{Kind: kind, Source: source(cell.Get("source"))})
		default:
			nb.Skipped++
		}
		return true
	})
	return nb, nil
}

func source(v gjson.Result) string {
	if !v.IsArray() {
		return v.String()
	}
	var b strings.Builder
	for _, line := range v.Array() {
		b.WriteString(line.String())
	}
	return b.String()
}

func language(doc gjson.Result) string {
	if l := doc.Get("metadata.kernelspec.language").String(); l != "" {
		return l
	}
	if l := doc.Get("metadata.language_info.name").String(); l != "" {
		return l
	}
	return "python"
}
