package sina

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/httputil"
	"github.com/wonny/fsa/backend/pkg/logger"
)

// Client handles communication with Sina Finance statement pages
// ⭐ SSOT: 新浪财经 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	baseURL    string
	translator *Translator
}

// statementPages maps statement types to Sina's vFD page names
var statementPages = map[contracts.StatementType]string{
	contracts.StatementBalance:  "vFD_BalanceSheet",
	contracts.StatementIncome:   "vFD_ProfitStatement",
	contracts.StatementCashFlow: "vFD_CashFlow",
}

// NewClient creates a new Sina Finance client. Requests are rate limited;
// Sina throttles aggressive scrapers by IP.
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg *config.Config) (*Client, error) {
	translator, err := NewTranslator(cfg.Sina.TranslationDir, log)
	if err != nil {
		return nil, fmt.Errorf("load translation maps: %w", err)
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("component", "sina_client"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.Sina.RateLimit), 1),
		baseURL:    cfg.Sina.BaseURL,
		translator: translator,
	}, nil
}

// FetchStatements downloads all three statements for one symbol, with line
// item labels translated to the canonical English headers.
func (c *Client) FetchStatements(ctx context.Context, symbol string) (*contracts.RawStatements, error) {
	out := &contracts.RawStatements{Symbol: symbol}

	for _, stmt := range []contracts.StatementType{
		contracts.StatementBalance,
		contracts.StatementIncome,
		contracts.StatementCashFlow,
	} {
		rows, err := c.fetchStatement(ctx, symbol, stmt)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", stmt, err)
		}
		rows = c.translator.TranslateRows(stmt, rows)
		switch stmt {
		case contracts.StatementBalance:
			out.Balance = rows
		case contracts.StatementIncome:
			out.Income = rows
		case contracts.StatementCashFlow:
			out.CashFlow = rows
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":    symbol,
		"balance":   len(out.Balance),
		"income":    len(out.Income),
		"cash_flow": len(out.CashFlow),
	}).Info("statements fetched")
	return out, nil
}

// fetchStatement downloads and parses one statement page
func (c *Client) fetchStatement(ctx context.Context, symbol string, stmt contracts.StatementType) ([]contracts.RawRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/corp/go.php/%s/stockid/%s/ctrl/all.phtml", c.baseURL, statementPages[stmt], symbol)
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	rows, err := parseStatementHTML(string(body), stmt)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
