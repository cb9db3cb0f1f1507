package contracts

import "time"

// Anomaly severity levels. 3 is the most severe.
const (
	SeverityInfo     = 1
	SeverityWarning  = 2
	SeverityCritical = 3
)

// Anomaly is one rule hit: which rule fired, on which reporting period,
// against which metric, with a human-readable detail string.
type Anomaly struct {
	Rule     string    `json:"rule"`
	Date     time.Time `json:"date"`
	Metric   string    `json:"metric"`
	Detail   string    `json:"detail"`
	Severity int       `json:"severity"`
}

// Thresholds holds every tunable constant of the anomaly rule engine.
// ⭐ SSOT: 이상탐지 임계값은 이 구조체로만 관리
type Thresholds struct {
	// 连续波动异常 (growth volatility)
	GrowthHigh        float64 // same-sign streak bound on |growth|
	ReversalDrop      float64 // current growth must fall below -this
	ReversalRise      float64 // previous growth must exceed +this
	ReversalAmplitude float64 // |current - previous| floor

	// 成本/费用率反常 (cost-rate drift)
	RateDeviation   float64 // |current - median| trigger
	RateSevere      float64 // deviation above this raises severity to 3
	IQRMultiplier   float64 // Tukey fence multiplier
	OccupancyDrift  float64 // receivable/inventory occupancy drift trigger
	OccupancySevere float64 // occupancy drift above this raises severity

	// 资产负债错配 (balance-sheet mismatch)
	CurrentRatioFloor float64 // liquidity gap fires below this
	ShortDebtShare    float64 // short-term debt share ceiling
	LongAssetShare    float64 // long-term asset share ceiling

	// 现金流与利润背离 (cash/profit divergence)
	OCFProfitFloor float64 // consecutive ratio floor

	// 应收/存货异常 (working-capital turnover)
	TurnoverDaysJump   float64 // day-count jump trigger
	RevenueGrowthFloor float64 // growth below this means no demand cover

	// 资本开支异常 (capex discipline)
	CapexRateCeiling float64 // capex rate absolute ceiling
	CapexUplift      float64 // uplift over trailing mean trigger
	CapexRise        float64 // capex rise for capitalization-shift check
	RnDDrop          float64 // paired R&D rate drop trigger

	DaysPerYear float64
}

// DefaultThresholds returns the production thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		GrowthHigh:        0.30,
		ReversalDrop:      0.20,
		ReversalRise:      0.20,
		ReversalAmplitude: 0.40,

		RateDeviation:   0.15,
		RateSevere:      0.25,
		IQRMultiplier:   1.5,
		OccupancyDrift:  0.15,
		OccupancySevere: 0.25,

		CurrentRatioFloor: 1.0,
		ShortDebtShare:    0.70,
		LongAssetShare:    0.50,

		OCFProfitFloor: 0.8,

		TurnoverDaysJump:   30,
		RevenueGrowthFloor: 0.10,

		CapexRateCeiling: 0.30,
		CapexUplift:      0.15,
		CapexRise:        0.10,
		RnDDrop:          0.10,

		DaysPerYear: 365,
	}
}
