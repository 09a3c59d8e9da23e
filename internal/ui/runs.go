// Package ui renders the HTML pages of the web server.
package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// RunListItem is one row of the run list page
type RunListItem struct {
	ID          string
	State       string
	Problem     string
	Algorithm   string
	Dimensions  int
	Generation  int
	Generations int
	BestFitness float64
	StartTime   time.Time
	EndTime     *time.Time
	Error       string
}

// Duration returns the wall time of the run so far
func (item RunListItem) Duration() time.Duration {
	if item.EndTime != nil {
		return item.EndTime.Sub(item.StartTime).Round(time.Millisecond)
	}
	return time.Since(item.StartTime).Round(time.Second)
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>diffevo</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { padding: 0.3rem 0.8rem; border-bottom: 1px solid #ddd; text-align: left; }
.failed { color: #b00; }
.completed { color: #070; }
</style>
</head>
<body>
`

const pageFoot = `</body>
</html>
`

// Layout wraps body in the shared page chrome
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h1>%s</h1>\n", templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, pageFoot)
		return err
	})
}

// RunList renders the page listing all searches
func RunList(items []RunListItem) templ.Component {
	return Layout("Searches", runTable(items))
}

func runTable(items []RunListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(items) == 0 {
			_, err := io.WriteString(w, "<p>No searches yet. POST a config to /api/v1/jobs to start one.</p>\n")
			return err
		}

		if _, err := io.WriteString(w, "<table>\n<tr><th>ID</th><th>State</th><th>Problem</th><th>Algorithm</th><th>Dim</th><th>Generation</th><th>Best fitness</th><th>Duration</th></tr>\n"); err != nil {
			return err
		}
		for _, item := range items {
			if err := runRow(w, item); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>\n")
		return err
	})
}

func runRow(w io.Writer, item RunListItem) error {
	state := templ.EscapeString(item.State)
	if item.Error != "" {
		state = fmt.Sprintf(`<span title="%s">%s</span>`, templ.EscapeString(item.Error), state)
	}

	_, err := fmt.Fprintf(w,
		"<tr class=\"%s\"><td><a href=\"/api/v1/jobs/%s\">%s</a></td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d/%d</td><td>%s</td><td>%s</td></tr>\n",
		templ.EscapeString(item.State),
		templ.EscapeString(item.ID),
		templ.EscapeString(shortID(item.ID)),
		state,
		templ.EscapeString(item.Problem),
		templ.EscapeString(item.Algorithm),
		item.Dimensions,
		item.Generation,
		item.Generations,
		strconv.FormatFloat(item.BestFitness, 'g', 6, 64),
		item.Duration(),
	)
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
