package ui

import (
	"fmt"
	"net/http"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"valuerank/domain/comparison"
	"valuerank/domain/core"
	apperrors "valuerank/internal/errors"
	"valuerank/internal/report"
)

const reportPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 64rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.35rem 0.7rem; text-align: left; }
th { background: #f0f0f5; }
</style>
</head>
<body>
%s
</body>
</html>`

// handleReport renders the full comparison as an HTML page.
// Query: runs (required), model (optional), metric (mean|stddev).
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	runIDs, err := parseRunIDs(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	modelFilter := core.ModelID(r.URL.Query().Get("model"))
	metric, err := comparison.ParseTimelineMetric(r.URL.Query().Get("metric"))
	if err != nil {
		a.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	stats, err := a.service.Compare(r.Context(), runIDs)
	if err != nil {
		a.writeError(w, err)
		return
	}
	values, err := a.service.CompareValues(r.Context(), runIDs, modelFilter)
	if err != nil {
		a.writeError(w, err)
		return
	}
	timeline, err := a.service.Timeline(r.Context(), runIDs, metric, modelFilter)
	if err != nil {
		a.writeError(w, err)
		return
	}

	doc := report.RenderMarkdown(report.ComparisonReport{
		Title:      "Run Comparison",
		Statistics: stats,
		Values:     values,
		Timeline:   timeline,
	})

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.ToHTML([]byte(doc), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, reportPage, "Run Comparison", body)
}
