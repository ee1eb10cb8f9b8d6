package api

import (
	"embed"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates parses the page templates. Pages share the head, sidebar,
// missing and foot blocks defined in partials.html.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		// cell numbers start at 1 like Jupyter's
		"inc":        func(i int) int { return i + 1 },
		"echartsSrc": echartsSrc,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
