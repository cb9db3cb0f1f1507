package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/logger"
)

// ErrNoStatements marks a symbol with no stored statement files
var ErrNoStatements = errors.New("no stored statements")

// statementFiles maps statement types to per-symbol CSV file suffixes
var statementFiles = map[contracts.StatementType]string{
	contracts.StatementBalance:  "balance_sheet",
	contracts.StatementIncome:   "profit_sheet",
	contracts.StatementCashFlow: "cash_flow_sheet",
}

// CSVStore persists raw statements as per-symbol CSV files under
// <dataDir>/<symbol>/<symbol>_<statement>.csv, most recent period first.
// ⭐ SSOT: 원본 재무제표 파일 저장은 여기서만
type CSVStore struct {
	log     *logger.Logger
	dataDir string
}

func NewCSVStore(log *logger.Logger, dataDir string) *CSVStore {
	return &CSVStore{
		log:     log.WithField("component", "csv_store"),
		dataDir: dataDir,
	}
}

func (s *CSVStore) path(symbol string, stmt contracts.StatementType) string {
	return filepath.Join(s.dataDir, symbol, fmt.Sprintf("%s_%s.csv", symbol, statementFiles[stmt]))
}

// Save writes all three statements for one symbol
func (s *CSVStore) Save(raw *contracts.RawStatements) error {
	dir := filepath.Join(s.dataDir, raw.Symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create statement dir: %w", err)
	}

	for stmt, rows := range map[contracts.StatementType][]contracts.RawRow{
		contracts.StatementBalance:  raw.Balance,
		contracts.StatementIncome:   raw.Income,
		contracts.StatementCashFlow: raw.CashFlow,
	} {
		if err := s.writeStatement(raw.Symbol, stmt, rows); err != nil {
			return fmt.Errorf("save %s: %w", stmt, err)
		}
	}

	s.log.WithField("symbol", raw.Symbol).Info("statements saved")
	return nil
}

// writeStatement writes one statement CSV. The header is the union of the
// row keys with Report Date first, sorted for a stable layout.
func (s *CSVStore) writeStatement(symbol string, stmt contracts.StatementType, rows []contracts.RawRow) error {
	f, err := os.Create(s.path(symbol, stmt))
	if err != nil {
		return err
	}
	defer f.Close()

	labels := make(map[string]bool)
	for _, row := range rows {
		for label := range row {
			if label != contracts.ReportDateColumn {
				labels[label] = true
			}
		}
	}
	header := []string{contracts.ReportDateColumn}
	rest := make([]string, 0, len(labels))
	for label := range labels {
		rest = append(rest, label)
	}
	sort.Strings(rest)
	header = append(header, rest...)

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, label := range header {
			record[i] = row[label]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Load reads back at most periods rows per statement (0 means all),
// preserving the stored most-recent-first order.
func (s *CSVStore) Load(symbol string, periods int) (*contracts.RawStatements, error) {
	out := &contracts.RawStatements{Symbol: symbol}

	for stmt, dst := range map[contracts.StatementType]*[]contracts.RawRow{
		contracts.StatementBalance:  &out.Balance,
		contracts.StatementIncome:   &out.Income,
		contracts.StatementCashFlow: &out.CashFlow,
	} {
		rows, err := s.readStatement(symbol, stmt, periods)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", stmt, err)
		}
		*dst = rows
	}

	if out.Empty() {
		return nil, fmt.Errorf("%w for %s", ErrNoStatements, symbol)
	}
	return out, nil
}

func (s *CSVStore) readStatement(symbol string, stmt contracts.StatementType, periods int) ([]contracts.RawRow, error) {
	f, err := os.Open(s.path(symbol, stmt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	data := records[1:]
	if periods > 0 && len(data) > periods {
		data = data[:periods]
	}

	rows := make([]contracts.RawRow, 0, len(data))
	for _, record := range data {
		row := make(contracts.RawRow, len(header))
		for i, label := range header {
			if i < len(record) {
				row[label] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
