package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"morpho/internal"
	"morpho/internal/errors"
	"morpho/internal/stats"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// ReportExporter renders a statistical summary as markdown and HTML.
type ReportExporter struct {
	engine *stats.Engine
	logger *internal.Logger
}

func NewReportExporter(engine *stats.Engine, logger *internal.Logger) *ReportExporter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportExporter{engine: engine, logger: logger}
}

// Export writes report_<stamp>.md and its HTML rendering into outputDir and
// returns both paths.
func (e *ReportExporter) Export(outputDir, title string, data []ParameterData) (mdPath, htmlPath string, err error) {
	source := e.render(title, data)

	mdPath = filepath.Join(outputDir, artifactName("report", "md"))
	if err := os.WriteFile(mdPath, []byte(source), 0o644); err != nil {
		return "", "", errors.Wrapf(err, "failed to write %s", mdPath)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage, Title: title})
	rendered := markdown.ToHTML([]byte(source), p, renderer)

	htmlPath = strings.TrimSuffix(mdPath, ".md") + ".html"
	if err := os.WriteFile(htmlPath, rendered, 0o644); err != nil {
		return "", "", errors.Wrapf(err, "failed to write %s", htmlPath)
	}

	e.logger.Info("wrote report %s", mdPath)
	return mdPath, htmlPath, nil
}

func (e *ReportExporter) render(title string, data []ParameterData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Significance threshold: %g\n\n", e.engine.Alpha)

	for _, pd := range data {
		fmt.Fprintf(&b, "## %s\n\n", pd.Parameter)

		b.WriteString("| Condition | N | Mean | SEM | SD | Median |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, series := range pd.Series {
			s := stats.Summarize(series.Values)
			fmt.Fprintf(&b, "| %s | %d | %.4g | %.4g | %.4g | %.4g |\n",
				series.Condition, s.N, s.Mean, s.SEM, s.SD, s.Median)
		}
		b.WriteString("\n")

		if len(pd.Series) < 2 {
			continue
		}
		groups := make([]stats.Group, len(pd.Series))
		for i, s := range pd.Series {
			groups[i] = stats.Group{Name: s.Condition, Values: s.Values}
		}
		result, err := e.engine.Compare(groups)
		if err != nil {
			fmt.Fprintf(&b, "Comparison unavailable: %v\n\n", err)
			continue
		}

		verdict := "not significant"
		if result.Significant {
			verdict = "significant"
		}
		fmt.Fprintf(&b, "**%s**: statistic %.4g, p = %.4g (%s)\n\n",
			result.TestName, result.Statistic, result.PValue, verdict)

		conditions := make([]string, 0, len(result.Normality))
		for c := range result.Normality {
			conditions = append(conditions, c)
		}
		sort.Strings(conditions)
		for _, c := range conditions {
			nr := result.Normality[c]
			state := "not normal"
			if nr.Normal {
				state = "normal"
			}
			fmt.Fprintf(&b, "- %s: Shapiro-Wilk W = %.4g, p = %.4g (%s)\n", c, nr.W, nr.PValue, state)
		}
		b.WriteString("\n")

		if len(result.Tukey) > 0 {
			b.WriteString("Tukey HSD significant pairs:\n\n")
			for _, pair := range result.Tukey {
				fmt.Fprintf(&b, "- %s vs %s: diff %.4g, q = %.4g, p = %.4g\n",
					pair.GroupA, pair.GroupB, pair.MeanDiff, pair.Q, pair.PValue)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
