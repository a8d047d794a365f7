package articles

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	articlesvc "github.com/dmitrymomot/newsdesk/svc/articles"
)

// StatsPage renders the same per-year breakdown the JSON endpoint serves.
func StatsPage(stats articlesvc.Stats, themeName string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html data-theme=%q><head><meta charset="utf-8"><title>Article stats</title></head><body>`+
				`<h1>Articles by year</h1><table><tr><th>Year</th><th>Articles</th></tr>`,
			html.EscapeString(themeName),
		); err != nil {
			return err
		}
		for _, y := range stats.Years {
			if _, err := fmt.Fprintf(w, `<tr><td>%d</td><td>%d</td></tr>`, y.Year, y.TotalArticles); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `</table><p>Total: %d</p></body></html>`, stats.Total)
		return err
	})
}
