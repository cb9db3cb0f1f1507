package sina

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/logger"
)

// translationFiles maps statement types to their zh->en header map files
var translationFiles = map[contracts.StatementType]string{
	contracts.StatementBalance:  "translation_map_balance.json",
	contracts.StatementIncome:   "translation_map_profit.json",
	contracts.StatementCashFlow: "translation_map_cash_flow.json",
}

// Translator renames Chinese statement line items to the English headers
// the alias resolver knows. Untranslated labels pass through unchanged.
type Translator struct {
	maps map[contracts.StatementType]map[string]string
	log  *logger.Logger
}

// NewTranslator loads the per-statement translation maps from dir. A
// missing file is tolerated (that statement stays untranslated); a file
// that exists but fails to parse is an error.
func NewTranslator(dir string, log *logger.Logger) (*Translator, error) {
	t := &Translator{
		maps: make(map[contracts.StatementType]map[string]string),
		log:  log.WithField("component", "sina_translator"),
	}
	for stmt, name := range translationFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				t.log.WithField("file", path).Warn("translation map missing, labels stay untranslated")
				continue
			}
			return nil, err
		}
		m := make(map[string]string)
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.maps[stmt] = m
	}
	return t, nil
}

// TranslateRows renames every translatable label in the given rows
func (t *Translator) TranslateRows(stmt contracts.StatementType, rows []contracts.RawRow) []contracts.RawRow {
	m := t.maps[stmt]
	if len(m) == 0 {
		return rows
	}
	out := make([]contracts.RawRow, len(rows))
	for i, row := range rows {
		translated := make(contracts.RawRow, len(row))
		for label, value := range row {
			if en, ok := m[label]; ok {
				label = en
			}
			translated[label] = value
		}
		out[i] = translated
	}
	return out
}
