package contracts

// Canonical metric keys: stable, statement-agnostic field names resolved
// from provider-specific column labels by the alias resolver.
// ⭐ SSOT: 정규화 이후의 필드명은 여기 상수로만 참조
const (
	// 利润表 (income statement)
	KeyRevenue           = "revenue"
	KeyOperatingCosts    = "operating_costs"
	KeyNetProfit         = "net_profit"
	KeyIncomeTax         = "income_tax"
	KeyFinancialExpenses = "financial_expenses"
	KeyInterestExpenses  = "interest_expenses"
	KeySellingExpenses   = "selling_expenses"
	KeyAdminExpenses     = "admin_expenses"
	KeyRnDExpenses       = "rnd_expenses"

	// 资产负债表 (balance sheet)
	KeyCash                   = "cash"
	KeyTradingFinancialAssets = "trading_fin"
	KeyAccountsReceivable     = "accounts_receivable"
	KeyInventories            = "inventories"
	KeyTotalAssets            = "total_assets"
	KeyFixedAssets            = "fixed_assets"
	KeyConstructionInProgress = "construction_in_progress"
	KeyInvestmentProperty     = "investment_property"
	KeyCurrentAssets          = "current_assets"
	KeyCurrentLiabilities     = "current_liabilities"
	KeyShortTermBorrowings    = "short_term_borrowings"
	KeyNCLDueWithinOneYear    = "ncl_due_1y"
	KeyTotalLiabilities       = "total_liabilities"
	KeyEquity                 = "equity"

	// 现金流量表 (cash-flow statement)
	KeyOperatingCashFlow = "ocf"
	KeyCapexCash         = "capex_cash"
	KeyDepreciation      = "depreciation"
)

// Derived column names produced by the metric derivation engine and shared
// with the anomaly rules.
const (
	ColGrossMargin      = "gross_margin"
	ColCostRate         = "cost_rate"
	ColExpenseRate      = "expense_rate"
	ColRnDRate          = "rnd_rate"
	ColOCFProfitRatio   = "ocf_profit_ratio"
	ColAvgTotalAssets   = "avg_total_assets"
	ColAvgEquity        = "avg_equity"
	ColAvgReceivables   = "avg_ar"
	ColAvgInventory     = "avg_inventory"
	ColARTurnover       = "ar_turnover"
	ColInventoryTurn    = "inventory_turnover"
	ColARDays           = "ar_days"
	ColInventoryDays    = "inventory_days"
	ColLongTermAssets   = "long_term_assets"
	ColShortTermDebt    = "short_term_debt"
	ColFlowGap          = "flow_gap"
	ColCurrentRatio     = "current_ratio"
	ColShortDebtRatio   = "short_debt_ratio"
	ColLongAssetRatio   = "long_asset_ratio"
	ColCapexRate        = "capex_rate"
	ColEBIT             = "ebit"
	ColNetMargin        = "net_margin"
	ColAssetTurnover    = "asset_turnover"
	ColEquityMultiplier = "equity_multiplier"
	ColROE              = "roe"
	ColRevenueGrowth    = "revenue_growth"
	ColNetProfitGrowth  = "net_profit_growth"
	ColOCFGrowth        = "ocf_growth"
)
