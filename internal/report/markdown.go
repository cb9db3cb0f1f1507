package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/logger"
)

const dateLayout = "2006-01-02"

// Generator renders an analysis result as a markdown report and writes it
// under the configured output directory.
type Generator struct {
	log       *logger.Logger
	outputDir string
}

func NewGenerator(log *logger.Logger, cfg *config.Config) *Generator {
	return &Generator{
		log:       log.WithField("component", "report_generator"),
		outputDir: cfg.Report.OutputDir,
	}
}

// Write renders the report and saves it as
// <outputDir>/<symbol>/<symbol>_analysis_report.md, the directory the
// article prompt builder reads from.
func (g *Generator) Write(result *contracts.AnalysisResult) (string, error) {
	dir := filepath.Join(g.outputDir, result.Symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_analysis_report.md", result.Symbol))
	if err := os.WriteFile(path, []byte(g.Render(result)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	g.log.WithFields(map[string]interface{}{
		"symbol": result.Symbol,
		"path":   path,
	}).Info("report written")
	return path, nil
}

// Render builds the full markdown document
func (g *Generator) Render(result *contracts.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s 财务分析报告\n\n", result.Symbol)
	if result.FrequencyNote != "" {
		fmt.Fprintf(&b, "> %s\n\n", result.FrequencyNote)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "> 数据警告：%s\n\n", w)
	}

	b.WriteString("## 最新期概览\n\n")
	b.WriteString(SnapshotTable(result))
	b.WriteString("\n\n")

	b.WriteString("## 财务比率分析\n\n")
	if result.Series != nil {
		for _, cat := range result.Series.Categories {
			fmt.Fprintf(&b, "### %s\n\n", cat.Name)
			b.WriteString(CategoryTable(result.Series.Dates, cat))
			b.WriteString("\n\n")
		}
	}

	if result.CashFlow != nil {
		b.WriteString("## 现金流质量\n\n")
		if result.CashFlow.DepreciationMissing {
			b.WriteString("> 折旧/摊销未在表头中提供，现金再投资比率按折旧摊销为 0 处理，请在有数据时更新。\n\n")
		}
		b.WriteString(IndicatorTable(result.CashFlow))
		b.WriteString("\n\n### 稳定性摘要（均值/标准差/变异系数）\n\n")
		b.WriteString(StabilityTable(result.CashFlow))
		b.WriteString("\n\n")
	}

	b.WriteString("## 结构性异常检测\n\n")
	b.WriteString(AnomalyTable(result.Anomalies))
	b.WriteString("\n")

	return b.String()
}

// FormatValue renders one value per its display format, empty when missing
func FormatValue(v contracts.Value, format contracts.Format) string {
	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	switch format {
	case contracts.FormatPercent:
		return fmt.Sprintf("%.2f%%", f*100)
	case contracts.FormatNumber:
		return addThousands(fmt.Sprintf("%.2f", f))
	default:
		return fmt.Sprintf("%.2f", f)
	}
}

// addThousands inserts comma separators into a formatted decimal
func addThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

func tableHeader(headers []string) []string {
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	return []string{
		"| " + strings.Join(headers, " | ") + " |",
		"|" + strings.Join(sep, "|") + "|",
	}
}

// SnapshotTable renders the latest-period headline figures
func SnapshotTable(result *contracts.AnalysisResult) string {
	lines := tableHeader([]string{"指标", "值"})
	if len(result.Dates) > 0 {
		lines = append(lines, fmt.Sprintf("| 报告期 | %s |", result.Dates[len(result.Dates)-1].Format(dateLayout)))
	}
	for _, item := range result.Snapshot {
		lines = append(lines, fmt.Sprintf("| %s | %s |", item.Name, FormatValue(item.Value, item.Format)))
	}
	return strings.Join(lines, "\n")
}

// CategoryTable renders one ratio category, one row per reporting period
func CategoryTable(dates []time.Time, cat contracts.MetricCategory) string {
	headers := []string{"Report Date"}
	for _, m := range cat.Metrics {
		headers = append(headers, m.Name)
	}
	lines := tableHeader(headers)

	for i, date := range dates {
		cells := []string{date.Format(dateLayout)}
		for _, m := range cat.Metrics {
			cells = append(cells, FormatValue(m.Values[i], m.Format))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// IndicatorTable renders the cash-flow quality series
func IndicatorTable(cf *contracts.CashFlowQuality) string {
	headers := []string{"Report Date"}
	for _, m := range cf.Metrics {
		headers = append(headers, m.Name)
	}
	lines := tableHeader(headers)

	for i, date := range cf.Dates {
		cells := []string{date.Format(dateLayout)}
		for _, m := range cf.Metrics {
			cells = append(cells, FormatValue(m.Values[i], m.Format))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// StabilityTable renders the mean/std/CV summary of the cash-flow metrics
func StabilityTable(cf *contracts.CashFlowQuality) string {
	lines := tableHeader([]string{"指标", "均值", "标准差", "变异系数"})
	for _, m := range cf.Metrics {
		lines = append(lines, "| "+strings.Join([]string{
			m.Name,
			FormatValue(m.Mean, m.Format),
			FormatValue(m.Std, m.Format),
			FormatValue(m.CV, contracts.FormatPercent),
		}, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// AnomalyTable renders rule hits, or a single 未触发 row when none fired
func AnomalyTable(anomalies []contracts.Anomaly) string {
	lines := tableHeader([]string{"规则", "触发日期", "指标/维度", "细节说明", "严重度(1-3)"})
	if len(anomalies) == 0 {
		lines = append(lines, "| 未触发 | - | - | - | - |")
		return strings.Join(lines, "\n")
	}
	for _, a := range anomalies {
		lines = append(lines, "| "+strings.Join([]string{
			a.Rule,
			a.Date.Format(dateLayout),
			a.Metric,
			strings.ReplaceAll(a.Detail, "|", "/"),
			fmt.Sprintf("%d", a.Severity),
		}, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}
