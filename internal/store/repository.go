package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fsa/backend/internal/contracts"
)

// ResultRepository persists analysis runs to PostgreSQL
// ⭐ SSOT: 분석 결과 영속화는 여기서만
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveResult stores a full run: metric values and anomaly hits, replacing
// any previous run for the symbol inside one transaction.
func (r *ResultRepository) SaveResult(ctx context.Context, result *contracts.AnalysisResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM analysis.metric_values WHERE symbol = $1`, result.Symbol); err != nil {
		return fmt.Errorf("clear metrics: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM analysis.anomalies WHERE symbol = $1`, result.Symbol); err != nil {
		return fmt.Errorf("clear anomalies: %w", err)
	}

	var batch pgx.Batch
	if result.Series != nil {
		for _, cat := range result.Series.Categories {
			for _, metric := range cat.Metrics {
				for i, v := range metric.Values {
					if v.IsMissing() {
						continue
					}
					batch.Queue(`
						INSERT INTO analysis.metric_values
							(symbol, category, metric, report_date, value, created_at)
						VALUES ($1, $2, $3, $4, $5, $6)
					`, result.Symbol, cat.Slug, metric.Name, result.Series.Dates[i], v.Float(), time.Now())
				}
			}
		}
	}
	for _, a := range result.Anomalies {
		batch.Queue(`
			INSERT INTO analysis.anomalies
				(symbol, rule, report_date, metric, detail, severity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, result.Symbol, a.Rule, a.Date, a.Metric, a.Detail, a.Severity, time.Now())
	}

	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, &batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert batch: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListAnomalies returns the stored anomalies for a symbol, newest first
func (r *ResultRepository) ListAnomalies(ctx context.Context, symbol string) ([]contracts.Anomaly, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rule, report_date, metric, detail, severity
		FROM analysis.anomalies
		WHERE symbol = $1
		ORDER BY report_date DESC, severity DESC
	`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.Anomaly
	for rows.Next() {
		var a contracts.Anomaly
		if err := rows.Scan(&a.Rule, &a.Date, &a.Metric, &a.Detail, &a.Severity); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// TrackedSymbols returns the symbols flagged for scheduled refresh
func (r *ResultRepository) TrackedSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT symbol FROM analysis.tracked_symbols
		WHERE enabled = true
		ORDER BY symbol
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		out = append(out, symbol)
	}
	return out, rows.Err()
}
