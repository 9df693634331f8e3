package reports

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates returns the parsed report templates with formatting
// helpers.
func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"money":  formatMoney,
		"number": humanize.Comma,
		"ratio":  formatRatio,
		"pct":    formatPercent,
		"join":   func(parts []string) string { return strings.Join(parts, "; ") },
	}

	return template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
}

func formatMoney(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

func formatRatio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
