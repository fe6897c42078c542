package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderSummary renders the summary of a conversion to a markdown string.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_title":  "summary_title.md",
		"summary_counts": "summary_counts.md",
		"summary_totals": "summary_totals.md",
		"summary_files":  "summary_files.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderStatement renders the trades and cash transactions of a report to a
// markdown string.
func RenderStatement(st *Statement) string {
	partials := map[string]string{
		"statement_account": "statement_account.md",
		"statement_trades":  "statement_trades.md",
		"statement_cash":    "statement_cash.md",
	}
	return renderTemplate("statement", "statement.md", partials, st)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// cell escapes the characters that would break a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
