package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/logger"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Report:    config.ReportConfig{OutputDir: t.TempDir()},
	}
	return NewGenerator(logger.New(cfg), cfg)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		format contracts.Format
		want   string
	}{
		{"percent", 0.1234, contracts.FormatPercent, "12.34%"},
		{"ratio", 1.5, contracts.FormatRatio, "1.50"},
		{"number", 1234567.8, contracts.FormatNumber, "1,234,567.80"},
		{"negative number", -1234.5, contracts.FormatNumber, "-1,234.50"},
		{"missing", math.NaN(), contracts.FormatRatio, ""},
		{"infinity", math.Inf(1), contracts.FormatPercent, ""},
	}

	for _, tt := range tests {
		if got := FormatValue(contracts.Value(tt.v), tt.format); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAnomalyTableEmpty(t *testing.T) {
	got := AnomalyTable(nil)

	if !strings.Contains(got, "| 规则 | 触发日期 | 指标/维度 | 细节说明 | 严重度(1-3) |") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "| 未触发 | - | - | - | - |") {
		t.Errorf("missing placeholder row:\n%s", got)
	}
}

func TestAnomalyTableEscapesPipes(t *testing.T) {
	got := AnomalyTable([]contracts.Anomaly{{
		Rule:     "现金流与利润背离",
		Date:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Metric:   "现金流/净利润",
		Detail:   "a|b",
		Severity: 2,
	}})

	if !strings.Contains(got, "a/b") {
		t.Errorf("pipe not escaped:\n%s", got)
	}
	if !strings.Contains(got, "2024-12-31") {
		t.Errorf("date not rendered:\n%s", got)
	}
}

func resultFixture() *contracts.AnalysisResult {
	dates := []time.Time{
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	return &contracts.AnalysisResult{
		Symbol:  "600519",
		Periods: 2,
		Window:  4,
		Dates:   dates,
		Series: &contracts.MetricSeries{
			Symbol: "600519",
			Dates:  dates,
			Categories: []contracts.MetricCategory{{
				Name: "偿债能力",
				Slug: "solvency",
				Metrics: []contracts.Metric{{
					Name:   "流动比率",
					Format: contracts.FormatRatio,
					Values: []contracts.Value{contracts.Value(1.8), contracts.Value(2.0)},
				}},
			}},
		},
		CashFlow: &contracts.CashFlowQuality{
			Dates:               dates,
			DepreciationMissing: true,
			Metrics: []contracts.CashFlowMetric{{
				Name:   "自由现金流",
				Format: contracts.FormatNumber,
				Values: []contracts.Value{contracts.Value(200), contracts.Value(260)},
				Mean:   contracts.Value(230),
				Std:    contracts.Value(30),
				CV:     contracts.Value(30.0 / 230.0),
			}},
		},
		Snapshot: []contracts.SnapshotItem{
			{Name: "营收", Format: contracts.FormatNumber, Value: contracts.Value(1300)},
		},
		FrequencyNote: "",
	}
}

func TestRender(t *testing.T) {
	g := testGenerator(t)

	got := g.Render(resultFixture())

	for _, want := range []string{
		"# 600519 财务分析报告",
		"## 最新期概览",
		"| 报告期 | 2024-12-31 |",
		"| 营收 | 1,300.00 |",
		"### 偿债能力",
		"| 2024-12-31 | 2.00 |",
		"折旧/摊销未在表头中提供",
		"## 结构性异常检测",
		"| 未触发 | - | - | - | - |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}

func TestWrite(t *testing.T) {
	g := testGenerator(t)

	path, err := g.Write(resultFixture())
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if filepath.Base(path) != "600519_analysis_report.md" {
		t.Errorf("unexpected file name %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != "600519" {
		t.Errorf("report not under per-symbol dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "# 600519 财务分析报告") {
		t.Error("written report lacks title")
	}
}
