// Package templates renders questionnaire output as markdown using
// embedded text/template files.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/HendryAvila/tgt/internal/results"
)

// Template names.
const (
	Questions  = "questions.md.tmpl"
	Result     = "result.md.tmpl"
	History    = "history.md.tmpl"
	TeamReport = "team_report.md.tmpl"
)

//go:embed *.md.tmpl
var files embed.FS

// Renderer renders a named template with data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// EmbedRenderer renders the templates compiled into the binary.
type EmbedRenderer struct {
	tmpl *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*EmbedRenderer, error) {
	funcs := template.FuncMap{
		"score": results.FormatScore,
		"inc":   func(i int) int { return i + 1 },
		"cell":  Cell,
	}
	tmpl, err := template.New("tgt").Funcs(funcs).ParseFS(files, "*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &EmbedRenderer{tmpl: tmpl}, nil
}

// cellEscaper keeps user text inside one markdown table cell or heading line.
var cellEscaper = strings.NewReplacer(
	"|", `\|`,
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

// Cell escapes pipes and folds line breaks so s renders on a single
// markdown line.
func Cell(s string) string {
	return cellEscaper.Replace(s)
}

// Render executes the named template.
func (r *EmbedRenderer) Render(name string, data any) (string, error) {
	t := r.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
