package sina

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/fsa/backend/internal/contracts"
)

// statementTables maps statement types to the data table id on the page
var statementTables = map[contracts.StatementType]string{
	contracts.StatementBalance:  "BalanceSheetNewTable0",
	contracts.StatementIncome:   "ProfitStatementNewTable0",
	contracts.StatementCashFlow: "CashFlowNewTable0",
}

var reportDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// parseStatementHTML extracts one statement from a Sina vFD page. The page
// lays items out as rows and reporting periods as columns; the output is
// transposed into one RawRow per period, most recent first, with the
// compact YYYYMMDD report date the rest of the pipeline expects.
func parseStatementHTML(html string, stmt contracts.StatementType) ([]contracts.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	table := doc.Find("table#" + statementTables[stmt])
	if table.Length() == 0 {
		// Older pages name every statement table after the profit table
		table = doc.Find("table#ProfitStatementNewTable0")
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("statement table not found")
	}

	var dates []string
	var rows []contracts.RawRow

	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td, th")
		if cells.Length() < 2 {
			return true
		}
		label := strings.TrimSpace(cells.Eq(0).Text())

		// The date row anchors the period columns
		if len(dates) == 0 {
			first := strings.TrimSpace(cells.Eq(1).Text())
			if m := reportDateRe.FindStringSubmatch(first); m != nil {
				cells.Slice(1, cells.Length()).Each(func(_ int, cell *goquery.Selection) {
					if m := reportDateRe.FindStringSubmatch(strings.TrimSpace(cell.Text())); m != nil {
						dates = append(dates, m[1]+m[2]+m[3])
					}
				})
				rows = make([]contracts.RawRow, len(dates))
				for i, date := range dates {
					rows[i] = contracts.RawRow{contracts.ReportDateColumn: date}
				}
			}
			return true
		}

		if label == "" {
			return true
		}
		cells.Slice(1, cells.Length()).Each(func(j int, cell *goquery.Selection) {
			if j >= len(rows) {
				return
			}
			value := strings.TrimSpace(cell.Text())
			if value == "--" {
				value = ""
			}
			rows[j][label] = value
		})
		return true
	})

	if len(rows) == 0 {
		return nil, fmt.Errorf("no reporting periods in statement table")
	}
	return rows, nil
}
