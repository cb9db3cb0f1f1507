package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/internal/statement"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/logger"
)

func testAnalyzer() *Analyzer {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Analysis:  config.AnalysisConfig{Periods: 4, Window: 4},
	}
	return New(logger.New(cfg), cfg)
}

// rawFixture yields three clean annual periods, most recent first
func rawFixture() *contracts.RawStatements {
	row := func(date string, cells map[string]string) contracts.RawRow {
		r := contracts.RawRow{contracts.ReportDateColumn: date}
		for k, v := range cells {
			r[k] = v
		}
		return r
	}
	return &contracts.RawStatements{
		Symbol: "600519",
		Balance: []contracts.RawRow{
			row("20241231", map[string]string{
				"Total Assets": "2400", "Total Liabilities": "900",
				"Total Current Assets": "1200", "Total Current Liabilities": "600",
				"Inventories": "150", "Notes and Accounts Receivable": "220",
				"Total Equity Attributable to Shareholders of the Parent Company": "1500",
			}),
			row("20231231", map[string]string{
				"Total Assets": "2200", "Total Liabilities": "850",
				"Total Current Assets": "1100", "Total Current Liabilities": "560",
				"Inventories": "140", "Notes and Accounts Receivable": "200",
				"Total Equity Attributable to Shareholders of the Parent Company": "1350",
			}),
			row("20221231", map[string]string{
				"Total Assets": "2000", "Total Liabilities": "800",
				"Total Current Assets": "1000", "Total Current Liabilities": "520",
				"Inventories": "130", "Notes and Accounts Receivable": "180",
				"Total Equity Attributable to Shareholders of the Parent Company": "1200",
			}),
		},
		Income: []contracts.RawRow{
			row("20241231", map[string]string{
				"Operating Revenue": "1300", "Operating Costs": "700",
				"Net Profit": "320", "Income Tax Expenses": "60",
				"Financial Expenses": "18", "Interest Expenses": "12",
				"Selling Expenses": "52", "Administrative Expenses": "40",
				"R&D Expenses": "65",
			}),
			row("20231231", map[string]string{
				"Operating Revenue": "1200", "Operating Costs": "660",
				"Net Profit": "290", "Income Tax Expenses": "55",
				"Financial Expenses": "16", "Interest Expenses": "11",
				"Selling Expenses": "48", "Administrative Expenses": "38",
				"R&D Expenses": "60",
			}),
			row("20221231", map[string]string{
				"Operating Revenue": "1100", "Operating Costs": "620",
				"Net Profit": "260", "Income Tax Expenses": "50",
				"Financial Expenses": "15", "Interest Expenses": "10",
				"Selling Expenses": "44", "Administrative Expenses": "36",
				"R&D Expenses": "55",
			}),
		},
		CashFlow: []contracts.RawRow{
			row("20241231", map[string]string{
				"Net Cash Flow from Operating Activities": "350",
				"Cash Paid for Acquisition of Fixed Assets, Intangible Assets, and Other Long-term Assets": "90",
			}),
			row("20231231", map[string]string{
				"Net Cash Flow from Operating Activities": "310",
				"Cash Paid for Acquisition of Fixed Assets, Intangible Assets, and Other Long-term Assets": "85",
			}),
			row("20221231", map[string]string{
				"Net Cash Flow from Operating Activities": "280",
				"Cash Paid for Acquisition of Fixed Assets, Intangible Assets, and Other Long-term Assets": "80",
			}),
		},
	}
}

func TestAnalyzePipeline(t *testing.T) {
	a := testAnalyzer()

	result, err := a.Analyze(rawFixture())
	require.NoError(t, err)

	assert.Equal(t, "600519", result.Symbol)
	assert.Equal(t, 3, result.Periods)
	require.Len(t, result.Dates, 3)
	assert.True(t, result.Dates[0].Before(result.Dates[2]), "dates chronological")
	assert.Empty(t, result.FrequencyNote)
	assert.Empty(t, result.Warnings)

	require.NotNil(t, result.Series)
	require.Len(t, result.Series.Categories, 6)

	solvency, ok := result.Series.Category("solvency")
	require.True(t, ok)
	// 流动比率 2024: 1200/600 = 2.0
	assert.InDelta(t, 2.0, solvency.Metrics[0].Values[2].Float(), 1e-9)
	// 速动比率 2024: (1200-150)/600 = 1.75
	assert.InDelta(t, 1.75, solvency.Metrics[1].Values[2].Float(), 1e-9)

	require.NotNil(t, result.CashFlow)
	require.Len(t, result.CashFlow.Metrics, 3)
	assert.True(t, result.CashFlow.DepreciationMissing)
	// FCF 2024: 350 - 90 = 260
	assert.InDelta(t, 260, result.CashFlow.Metrics[2].Values[2].Float(), 1e-9)

	require.NotEmpty(t, result.Snapshot)
	assert.Equal(t, "营收", result.Snapshot[0].Name)
	assert.InDelta(t, 1300, result.Snapshot[0].Value.Float(), 1e-9)
}

func TestAnalyzeInsufficientData(t *testing.T) {
	a := testAnalyzer()

	_, err := a.Analyze(&contracts.RawStatements{Symbol: "600519"})
	assert.True(t, errors.Is(err, statement.ErrInsufficientData))
}

func TestDuPontIdentity(t *testing.T) {
	ds := datasetFixture(t)

	netMargin := ds.Column(contracts.ColNetMargin)
	turnover := ds.Column(contracts.ColAssetTurnover)
	multiplier := ds.Column(contracts.ColEquityMultiplier)
	roe := ds.Column(contracts.ColROE)
	netProfit := ds.Column(contracts.KeyNetProfit)
	avgEquity := ds.Column(contracts.ColAvgEquity)

	for i := 0; i < ds.Len(); i++ {
		product := netMargin[i] * turnover[i] * multiplier[i]
		require.InDelta(t, roe[i], product, 1e-9)
		// Decomposed ROE equals the direct net profit / average equity
		require.InDelta(t, netProfit[i]/avgEquity[i], roe[i], 1e-6)
	}
}

func TestGrowthFirstPeriodMissing(t *testing.T) {
	ds := datasetFixture(t)

	growth := ds.Column(contracts.ColRevenueGrowth)
	assert.True(t, math.IsNaN(growth[0]), "first period growth has no base")
	// 2023: 1200/1100 - 1
	assert.InDelta(t, 100.0/1100.0, growth[1], 1e-9)
}

func TestEnrichZeroRevenue(t *testing.T) {
	ds := contracts.NewDataset("600519", []time.Time{
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	ds.Set(contracts.KeyRevenue, []float64{0})
	ds.Set(contracts.KeyOperatingCosts, []float64{50})

	Enrich(ds)

	assert.True(t, math.IsNaN(ds.Latest(contracts.ColGrossMargin)), "zero denominator reads missing")
	assert.True(t, math.IsNaN(ds.Latest(contracts.ColCostRate)))
}

func TestRollingAverageSelfFallback(t *testing.T) {
	ds := datasetFixture(t)

	avgAssets := ds.Column(contracts.ColAvgTotalAssets)
	// First period averages with itself
	assert.InDelta(t, 2000, avgAssets[0], 1e-9)
	assert.InDelta(t, 2100, avgAssets[1], 1e-9)
}

func datasetFixture(t *testing.T) *contracts.Dataset {
	t.Helper()

	n := statement.NewNormalizer(logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}))
	ds, _, err := n.Normalize(rawFixture(), 4)
	require.NoError(t, err)

	Enrich(ds)
	return ds
}
