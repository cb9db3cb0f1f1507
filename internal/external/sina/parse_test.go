package sina

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/logger"
)

const balanceHTML = `
<html><body>
<table id="BalanceSheetNewTable0">
  <tr><td>报表日期</td><td>2024-12-31</td><td>2023-12-31</td></tr>
  <tr><td>流动资产</td><td></td><td></td></tr>
  <tr><td>货币资金</td><td>1,200.00</td><td>1,100.00</td></tr>
  <tr><td>资产总计</td><td>2,400.00</td><td>2,200.00</td></tr>
  <tr><td>存货</td><td>--</td><td>140.00</td></tr>
</table>
</body></html>`

func TestParseStatementHTML(t *testing.T) {
	rows, err := parseStatementHTML(balanceHTML, contracts.StatementBalance)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	// Most recent period first, compact report date
	if got := rows[0][contracts.ReportDateColumn]; got != "20241231" {
		t.Errorf("report date = %q, want 20241231", got)
	}
	if got := rows[0]["资产总计"]; got != "2,400.00" {
		t.Errorf("资产总计 = %q", got)
	}
	if got := rows[1]["货币资金"]; got != "1,100.00" {
		t.Errorf("货币资金 = %q", got)
	}
	// "--" placeholder reads as empty
	if got := rows[0]["存货"]; got != "" {
		t.Errorf("存货 = %q, want empty", got)
	}
}

func TestParseStatementHTMLNoTable(t *testing.T) {
	if _, err := parseStatementHTML("<html><body></body></html>", contracts.StatementBalance); err == nil {
		t.Error("expected error for missing table")
	}
}

func testLog() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestTranslator(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "translation_map_balance.json")
	if err := os.WriteFile(mapPath, []byte(`{"资产总计": "Total Assets"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tr, err := NewTranslator(dir, testLog())
	if err != nil {
		t.Fatalf("NewTranslator error: %v", err)
	}

	rows := []contracts.RawRow{{
		contracts.ReportDateColumn: "20241231",
		"资产总计":                     "2400",
		"某未知科目":                    "5",
	}}
	out := tr.TranslateRows(contracts.StatementBalance, rows)

	if got := out[0]["Total Assets"]; got != "2400" {
		t.Errorf("Total Assets = %q", got)
	}
	if got := out[0]["某未知科目"]; got != "5" {
		t.Error("unknown labels must pass through")
	}

	// Income map missing: rows pass through untouched
	same := tr.TranslateRows(contracts.StatementIncome, rows)
	if got := same[0]["资产总计"]; got != "2400" {
		t.Errorf("untranslated statement changed: %q", got)
	}
}

func TestTranslatorBadJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "translation_map_profit.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTranslator(dir, testLog()); err == nil {
		t.Error("expected error for malformed translation map")
	}
}
