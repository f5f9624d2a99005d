package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"edakit/domain/core"
	"edakit/domain/report"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Format selects an output representation
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format name; "" means text
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", core.NewInvalidOperationError("unknown format %q (want text, markdown, html or json)", s)
}

// ContentType is the MIME type of a rendered format
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// HTML converts markdown to a complete HTML page
func HTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// JSON marshals v with indentation
func JSON(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(out, '\n'), nil
}

// Run renders a run in the requested format. Text and markdown are identical
// for runs.
func Run(run *report.Run, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(run)
	case FormatHTML:
		return HTML("EDA report: "+run.Target, RunMarkdown(run)), nil
	}
	return []byte(RunMarkdown(run)), nil
}

// GroupTestText is the one-line summary per comparison
func GroupTestText(rows ...report.GroupTestResult) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Message() + "\n")
	}
	return b.String()
}
