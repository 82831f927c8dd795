package models

import (
	"fmt"
	"strings"
)

// Pillar identifies one of the three life domains the engine evaluates.
type Pillar string

const (
	PillarEconomic Pillar = "economic"
	PillarMental   Pillar = "mental"
	PillarPhysical Pillar = "physical"
)

// Severity expresses urgency within a priority band.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SeverityRank maps severity to a sortable rank, lower = more urgent.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// RuleType identifies the rule that produced an alert.
type RuleType string

const (
	// Economic rules, in evaluator priority order.
	RuleDailyAnomaly       RuleType = "daily_anomaly"
	RuleMonthlyOverspend   RuleType = "monthly_overspend"
	RuleCategoryOverflow   RuleType = "category_overflow"
	RuleHeavySubscriptions RuleType = "heavy_subscriptions"
	RuleExpensivePrice     RuleType = "expensive_price"
	RuleNoExpenseRecords   RuleType = "no_expense_records"

	// Mental rules.
	RuleSustainedLowMood RuleType = "sustained_low"
	RuleSharpMoodDrop    RuleType = "sharp_drop"
	RuleStaleMoodRecords RuleType = "stale_mood_records"

	// Physical rules.
	RuleCriticalInactivity RuleType = "critical_inactivity"
	RuleAbandonmentRisk    RuleType = "abandonment_risk"
)

var pillarIdPrefix = map[Pillar]string{
	PillarEconomic: "econ",
	PillarMental:   "mental",
	PillarPhysical: "phys",
}

// AlertId derives the deterministic id for a rule trigger. The same
// pillar/rule pair always yields the same id, which is what makes
// suppression and re-trigger tracking possible across runs.
func AlertId(pillar Pillar, rule RuleType) string {
	return fmt.Sprintf("%s_%s", pillarIdPrefix[pillar], rule)
}

// AlertIdForEntity derives the deterministic id for a rule trigger scoped to
// an entity such as a category or product name. The key is lowercased so
// "Food" and "food" never produce distinct alerts.
func AlertIdForEntity(pillar Pillar, rule RuleType, entityKey string) string {
	return fmt.Sprintf("%s_%s:%s", pillarIdPrefix[pillar], rule, strings.ToLower(entityKey))
}

// CTAKind distinguishes the two suggested-action shapes an alert can carry.
type CTAKind string

const (
	CTANavigate CTAKind = "navigate"
	CTACompose  CTAKind = "compose"
)

// CTA is the single suggested action attached to an alert: either navigate
// to a view or open a composer prefilled with an empty entry.
type CTA struct {
	Kind   CTAKind `json:"kind"`
	Target string  `json:"target"`
}

// AlertData is the tagged payload union: each rule produces exactly one
// variant carrying only the metrics that triggered it.
type AlertData interface {
	alertData()
}

type DailyAnomalyData struct {
	TodayTotal   string `json:"today_total"`
	DailyAverage string `json:"daily_average"`
	ExcessPct    int64  `json:"excess_pct"`
}

type MonthlyOverspendData struct {
	Projected         string `json:"projected"`
	HistoricalAverage string `json:"historical_average"`
	ExcessPct         int64  `json:"excess_pct"`
}

type CategoryOverflowData struct {
	Category          string `json:"category"`
	Projected         string `json:"projected"`
	HistoricalAverage string `json:"historical_average"`
	ExcessPct         int64  `json:"excess_pct"`
}

type HeavySubscriptionsData struct {
	MonthlyLoad         string `json:"monthly_load"`
	AverageMonthlySpend string `json:"average_monthly_spend"`
	SharePct            int64  `json:"share_pct"`
}

type ExpensivePriceData struct {
	Product           string `json:"product"`
	Amount            string `json:"amount"`
	HistoricalAverage string `json:"historical_average"`
	ExcessPct         int64  `json:"excess_pct"`
}

type NoExpenseRecordsData struct {
	HasAny        bool `json:"has_any"`
	DaysSinceLast int  `json:"days_since_last"`
}

type SustainedLowMoodData struct {
	RunLength    int     `json:"run_length"`
	AverageLevel float64 `json:"average_level"`
}

type SharpMoodDropData struct {
	LatestLevel     int     `json:"latest_level"`
	BaselineAverage float64 `json:"baseline_average"`
}

type StaleMoodData struct {
	HasAny        bool `json:"has_any"`
	DaysSinceLast int  `json:"days_since_last"`
}

type CriticalInactivityData struct {
	HasAny        bool `json:"has_any"`
	DaysSinceLast int  `json:"days_since_last"`
}

type AbandonmentRiskData struct {
	GapDays           int     `json:"gap_days"`
	ActiveDaysPerWeek float64 `json:"active_days_per_week"`
}

func (DailyAnomalyData) alertData()       {}
func (MonthlyOverspendData) alertData()   {}
func (CategoryOverflowData) alertData()   {}
func (HeavySubscriptionsData) alertData() {}
func (ExpensivePriceData) alertData()     {}
func (NoExpenseRecordsData) alertData()   {}
func (SustainedLowMoodData) alertData()   {}
func (SharpMoodDropData) alertData()      {}
func (StaleMoodData) alertData()          {}
func (CriticalInactivityData) alertData() {}
func (AbandonmentRiskData) alertData()    {}

// Alert is a derived, ephemeral notice. It is recomputed from scratch on
// every engine run; only its lifecycle timestamps persist in the store.
// Priority is the rule's fixed rank within its pillar (lower = more urgent);
// the global ordering across pillars is decided by the priority resolver.
type Alert struct {
	Id       string    `json:"id"`
	Pillar   Pillar    `json:"pillar"`
	Rule     RuleType  `json:"rule"`
	Text     string    `json:"text"`
	Priority int       `json:"priority"`
	Severity Severity  `json:"severity"`
	CTA      CTA       `json:"cta"`
	Data     AlertData `json:"data,omitempty"`
}

// InsightType tags the kind of observation an insight carries.
type InsightType string

const (
	InsightNegativeTrend       InsightType = "trend"
	InsightHighVariability     InsightType = "variability"
	InsightMissingData         InsightType = "missing-data"
	InsightProlongedInactivity InsightType = "prolonged-inactivity"
	InsightConsistencyDrop     InsightType = "consistency-drop"
	InsightIrregularity        InsightType = "irregularity"
	InsightSpendingTrend       InsightType = "spending-trend"
	InsightCategoryShare       InsightType = "category-share"
	InsightSubscriptionLoad    InsightType = "subscription-load"
)

// Insight is a descriptive, non-actionable observation. It has no lifecycle:
// never persisted, never suppressed, fully recomputed each call.
type Insight struct {
	Id     string      `json:"id"`
	Pillar Pillar      `json:"pillar"`
	Type   InsightType `json:"type"`
	Text   string      `json:"text"`
}

// InsightId derives the deterministic id for an insight.
func InsightId(pillar Pillar, typ InsightType) string {
	return fmt.Sprintf("%s_insight_%s", pillarIdPrefix[pillar], typ)
}

// EconomicSnapshot is the dashboard rollup for the economic pillar.
type EconomicSnapshot struct {
	Spend30Days             string `json:"spend_30_days"`
	DailyAverage            string `json:"daily_average"`
	MonthProjection         string `json:"month_projection"`
	SubscriptionMonthlyLoad string `json:"subscription_monthly_load"`
	ExpenseCount30Days      int    `json:"expense_count_30_days"`
}

// MentalSnapshot is the dashboard rollup for the mental pillar.
type MentalSnapshot struct {
	DaysTracked14 int     `json:"days_tracked_14"`
	AverageMood30 float64 `json:"average_mood_30"`
	Trend         string  `json:"trend"` // up | down | flat
}

// PhysicalSnapshot is the dashboard rollup for the physical pillar.
type PhysicalSnapshot struct {
	ActiveDays14  int `json:"active_days_14"`
	CurrentStreak int `json:"current_streak"`
	DaysSinceLast int `json:"days_since_last"` // -1 when no records exist
}
