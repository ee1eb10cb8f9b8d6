package notebook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const titleAndCode = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Title"]},
  {"cell_type": "code", "execution_count": 1, "metadata": {}, "outputs": [], "source": ["x=1"]}
 ],
 "metadata": {"kernelspec": {"display_name": "Python 3", "language": "python", "name": "python3"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`

func TestParse(t *testing.T) {
	nb, err := Parse([]byte(titleAndCode))
	require.NoError(t, err)
	assert.Equal(t, []Cell{
		{Kind: KindMarkdown, Source: "# Title"},
		{Kind: KindCode, Source: "x=1"},
	}, nb.Cells)
	assert.Equal(t, "python", nb.Language)
}

func TestParse_SourceForms(t *testing.T) {
	doc := `{"cells": [
		{"cell_type": "code", "source": "import pandas as pd\ndf = pd.read_csv('x')"},
		{"cell_type": "code", "source": ["a = 1\n", "b = 2"]},
		{"cell_type": "raw", "source": "ignored"},
		{"cell_type": "markdown", "source": []}
	], "metadata": {"language_info": {"name": "R"}}}`

	nb, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, nb.Cells, 3)
	assert.Equal(t, "import pandas as pd\ndf = pd.read_csv('x')", nb.Cells[0].Source)
	assert.Equal(t, "a = 1\nb = 2", nb.Cells[1].Source)
	assert.Equal(t, "", nb.Cells[2].Source)
	assert.Equal(t, 1, nb.Skipped)
	assert.Equal(t, "R", nb.Language)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":   "{cells: nope",
		"no cells":   `{"metadata": {}}`,
		"cells type": `{"cells": "x"}`,
		"not utf8":   "\xff\xfe",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "notebook.ipynb"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingNotebook))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notebook.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(titleAndCode), 0o644))

	nb, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, nb.Cells, 2)
}

func TestRender_TitleThenCode(t *testing.T) {
	nb, err := Parse([]byte(titleAndCode))
	require.NoError(t, err)

	blocks, err := Render(nb)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.True(t, blocks[0].IsMarkdown())
	assert.Contains(t, string(blocks[0].HTML), "<h1")
	assert.Contains(t, string(blocks[0].HTML), "Title</h1>")
	assert.Equal(t, "Title", blocks[0].Text())

	assert.True(t, blocks[1].IsCode())
	assert.Equal(t, "x=1", blocks[1].Source)
	assert.Empty(t, blocks[1].HTML)
	assert.Equal(t, "python", blocks[1].Language)
	assert.Equal(t, "x=1", blocks[1].Text())
}
