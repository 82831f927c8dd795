package engine

import "github.com/shopspring/decimal"

// Thresholds carries every statistical constant the rule evaluators use.
// The defaults are the engine's fixed policy; a thresholds file may tune them
// but the zero value of this struct is not usable — always start from
// DefaultThresholds.
type Thresholds struct {
	// Economic.
	DailyAnomalyMinSamples     int
	DailyAnomalyRatio          decimal.Decimal // today vs daily average
	DailyAnomalyHighExcess     decimal.Decimal // excess share that escalates to high
	MonthlyOverspendRatio      decimal.Decimal
	MonthlyOverspendHighExcess decimal.Decimal
	CategoryShareFloor         decimal.Decimal // min share of month spend to consider a category
	CategoryOverflowRatio      decimal.Decimal
	SubscriptionShareFloor     decimal.Decimal
	SubscriptionShareHigh      decimal.Decimal
	PriceExcessRatio           decimal.Decimal
	PriceMinPoints             int
	ExpenseStaleDays           int
	ExpenseStaleMediumDays     int

	// Mental.
	MoodLowLevel          int
	MoodLowRunMin         int
	MoodLowRunHigh        int
	SharpDropMinSamples   int
	SharpDropRatio        float64
	MoodStaleDays         int
	MoodStaleMediumDays   int
	MoodTrendMin7         int
	MoodTrendMin30        int
	MoodTrendRatio        float64
	MoodVariabilityMin    int
	MoodVariabilityStddev float64
	MoodMissingDataFloor  int

	// Physical.
	InactivityAlertDays      int
	InactivityHighDays       int
	AbandonmentGapMin        int
	AbandonmentActivePerWeek float64
	ProlongedInactivityDays  int
	ConsistencyDropRatio     float64
	ConsistencyPriorMin      int
	IrregularityGapDays      int
	IrregularityGapCount     int
}

// DefaultThresholds returns the engine's fixed statistical policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DailyAnomalyMinSamples:     5,
		DailyAnomalyRatio:          decimal.RequireFromString("1.25"),
		DailyAnomalyHighExcess:     decimal.RequireFromString("0.80"),
		MonthlyOverspendRatio:      decimal.RequireFromString("1.15"),
		MonthlyOverspendHighExcess: decimal.RequireFromString("0.40"),
		CategoryShareFloor:         decimal.RequireFromString("0.10"),
		CategoryOverflowRatio:      decimal.RequireFromString("1.30"),
		SubscriptionShareFloor:     decimal.RequireFromString("0.15"),
		SubscriptionShareHigh:      decimal.RequireFromString("0.25"),
		PriceExcessRatio:           decimal.RequireFromString("1.20"),
		PriceMinPoints:             2,
		ExpenseStaleDays:           5,
		ExpenseStaleMediumDays:     10,

		MoodLowLevel:          2,
		MoodLowRunMin:         3,
		MoodLowRunHigh:        5,
		SharpDropMinSamples:   5,
		SharpDropRatio:        0.7,
		MoodStaleDays:         7,
		MoodStaleMediumDays:   14,
		MoodTrendMin7:         3,
		MoodTrendMin30:        5,
		MoodTrendRatio:        0.85,
		MoodVariabilityMin:    4,
		MoodVariabilityStddev: 1.2,
		MoodMissingDataFloor:  4,

		InactivityAlertDays:      14,
		InactivityHighDays:       21,
		AbandonmentGapMin:        10,
		AbandonmentActivePerWeek: 2,
		ProlongedInactivityDays:  10,
		ConsistencyDropRatio:     0.6,
		ConsistencyPriorMin:      3,
		IrregularityGapDays:      5,
		IrregularityGapCount:     3,
	}
}
