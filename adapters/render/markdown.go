package render

import (
	"fmt"
	"strings"

	"edakit/domain/report"
)

// table writes a GitHub-flavoured markdown table
func table(b *strings.Builder, headers []string, rows [][]string) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}

func f4(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// NormalityMarkdown renders normality rows
func NormalityMarkdown(rows []report.NormalityResult) string {
	var b strings.Builder
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Column, f4(r.Statistic), f4(r.PValue), string(r.Distribution)}
	}
	table(&b, []string{"column", "W", "p_value", "distribution"}, data)
	return b.String()
}

// CorrelationMarkdown renders a correlation table
func CorrelationMarkdown(rows []report.CorrelationResult) string {
	var b strings.Builder
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Column, f4(r.PValue), f4(r.Correlation), string(r.Method), string(r.Conclusion)}
	}
	table(&b, []string{"column", "p_value", "correlation", "method", "conclusion"}, data)
	return b.String()
}

// EtaMarkdown renders eta scores
func EtaMarkdown(rows []report.EtaResult) string {
	var b strings.Builder
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Column, f4(r.Eta)}
	}
	table(&b, []string{"column", "eta"}, data)
	return b.String()
}

// GroupTestsMarkdown renders group comparisons
func GroupTestsMarkdown(rows []report.GroupTestResult) string {
	var b strings.Builder
	data := make([][]string, len(rows))
	for i, r := range rows {
		sizes := make([]string, len(r.Sizes))
		for j, n := range r.Sizes {
			sizes[j] = fmt.Sprintf("%s=%d", r.Groups[j], n)
		}
		data[i] = []string{r.Factor, string(r.Test), f4(r.Statistic), f4(r.PValue), strings.Join(sizes, ", "), string(r.Verdict)}
	}
	table(&b, []string{"factor", "test", "statistic", "p_value", "groups", "verdict"}, data)
	return b.String()
}

// OutlierMarkdown renders the fences applied by an outlier pass
func OutlierMarkdown(s report.OutlierSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Removed %d of %d rows from `%s` (k=%g)", s.Removed(), s.RowsBefore, s.Column, s.K)
	if s.GroupColumn != "" {
		fmt.Fprintf(&b, " within groups of `%s`", s.GroupColumn)
	}
	b.WriteString(".\n\n")

	data := make([][]string, len(s.Bounds))
	for i, g := range s.Bounds {
		group := g.Group
		if group == "" {
			group = "(all)"
		}
		data[i] = []string{group, f4(g.Q1), f4(g.Q3), f4(g.Lower), f4(g.Upper), fmt.Sprintf("%d/%d", g.Kept, g.Total)}
	}
	table(&b, []string{"group", "q1", "q3", "lower", "upper", "kept"}, data)
	return b.String()
}

// RunMarkdown renders a whole analysis run
func RunMarkdown(run *report.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# EDA report: %s\n\n", run.Target)
	fmt.Fprintf(&b, "- run: `%s`\n- dataset: %s\n- rows: %d\n- alpha: %g\n- created: %s\n\n",
		run.ID, run.Dataset, run.Rows, run.Alpha, run.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	if run.Outliers != nil {
		b.WriteString("## Outliers\n\n" + OutlierMarkdown(*run.Outliers) + "\n")
	}
	if len(run.Normality) > 0 {
		b.WriteString("## Normality\n\n" + NormalityMarkdown(run.Normality) + "\n")
	}
	if len(run.Correlations) > 0 {
		b.WriteString("## Correlations\n\n" + CorrelationMarkdown(run.Correlations) + "\n")
	}
	if len(run.Eta) > 0 {
		b.WriteString("## Eta\n\n" + EtaMarkdown(run.Eta) + "\n")
	}
	if len(run.GroupTests) > 0 {
		b.WriteString("## Group comparisons\n\n" + GroupTestsMarkdown(run.GroupTests) + "\n")
	}
	if len(run.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range run.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}
