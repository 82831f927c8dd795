package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pillar-alerts-go/internal/models"

	"github.com/shopspring/decimal"
)

const economicMaxAlerts = 3

// EconomicInput bundles the record sources the economic evaluator reads.
type EconomicInput struct {
	Transactions  []models.Transaction
	Subscriptions []models.Subscription
	Prices        models.PriceHistory
}

// EconomicResult is the evaluator's full output for one run.
type EconomicResult struct {
	Alerts   []models.Alert
	Insights []models.Insight
	Snapshot models.EconomicSnapshot
}

// economicContext holds the aggregates shared by several rules so that each
// pass over the transactions happens once.
type economicContext struct {
	expenses      []models.Transaction
	todayTotal    decimal.Decimal
	baselineCount int             // expense records in the 30 days before today
	baselineTotal decimal.Decimal // their sum
	dailyAverage  decimal.Decimal
	monthTotals   map[string]decimal.Decimal            // month key -> total spend
	categoryMonth map[string]map[string]decimal.Decimal // category -> month key -> spend
	currentMonth  decimal.Decimal
	currentKey    string
	projection    decimal.Decimal
	historicalAvg decimal.Decimal // average of the 3 prior months, zero if none had spend
	hasBaseline   bool            // at least one prior month with nonzero spend
}

// EvaluateEconomic runs the six economic rules against the given records at
// the given instant. Every rule is evaluated independently; the result is
// priority-ordered and capped.
func EvaluateEconomic(in EconomicInput, th Thresholds, now time.Time) EconomicResult {
	ec := buildEconomicContext(in, now)

	var alerts []models.Alert
	if a, ok := ruleDailyAnomaly(ec, th); ok {
		alerts = append(alerts, a)
	}
	if a, ok := ruleMonthlyOverspend(ec, th); ok {
		alerts = append(alerts, a)
	}
	if a, ok := ruleCategoryOverflow(ec, th, now); ok {
		alerts = append(alerts, a)
	}
	if a, ok := ruleHeavySubscriptions(ec, in.Subscriptions, th); ok {
		alerts = append(alerts, a)
	}
	if a, ok := ruleExpensivePrice(ec, in.Prices, th, now); ok {
		alerts = append(alerts, a)
	}
	if a, ok := ruleNoExpenseRecords(ec, th, now); ok {
		alerts = append(alerts, a)
	}

	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].Priority < alerts[j].Priority })
	if len(alerts) > economicMaxAlerts {
		alerts = alerts[:economicMaxAlerts]
	}

	return EconomicResult{
		Alerts:   alerts,
		Insights: economicInsights(ec, in.Subscriptions, th),
		Snapshot: economicSnapshot(ec, in.Subscriptions),
	}
}

func buildEconomicContext(in EconomicInput, now time.Time) economicContext {
	ec := economicContext{
		todayTotal:    decimal.Zero,
		baselineTotal: decimal.Zero,
		dailyAverage:  decimal.Zero,
		monthTotals:   map[string]decimal.Decimal{},
		categoryMonth: map[string]map[string]decimal.Decimal{},
		currentMonth:  decimal.Zero,
		currentKey:    monthKey(now),
		projection:    decimal.Zero,
		historicalAvg: decimal.Zero,
	}

	for _, tx := range in.Transactions {
		if tx.Kind != models.KindExpense {
			continue
		}
		ec.expenses = append(ec.expenses, tx)

		gap := daysBetween(tx.Date, now)
		if sameDay(tx.Date, now) {
			ec.todayTotal = ec.todayTotal.Add(tx.Amount)
		} else if gap >= 1 && gap <= 30 {
			ec.baselineCount++
			ec.baselineTotal = ec.baselineTotal.Add(tx.Amount)
		}

		mk := monthKey(tx.Date)
		ec.monthTotals[mk] = ec.monthTotals[mk].Add(tx.Amount)

		cat := tx.CategoryOrDefault()
		if ec.categoryMonth[cat] == nil {
			ec.categoryMonth[cat] = map[string]decimal.Decimal{}
		}
		ec.categoryMonth[cat][mk] = ec.categoryMonth[cat][mk].Add(tx.Amount)

		if sameMonth(tx.Date, now) {
			ec.currentMonth = ec.currentMonth.Add(tx.Amount)
		}
	}

	ec.dailyAverage = ec.baselineTotal.Div(decimal.NewFromInt(30))
	ec.projection = projectMonth(ec.currentMonth, now)

	sum := decimal.Zero
	nonzero := 0
	for _, mk := range priorMonths(now, 3) {
		if total, ok := ec.monthTotals[mk]; ok && total.IsPositive() {
			sum = sum.Add(total)
			nonzero++
		}
	}
	if nonzero > 0 {
		ec.hasBaseline = true
		ec.historicalAvg = sum.Div(decimal.NewFromInt(int64(nonzero)))
	}

	return ec
}

// projectMonth extrapolates a partial month total to a full-month figure.
func projectMonth(currentTotal decimal.Decimal, now time.Time) decimal.Decimal {
	day := decimal.NewFromInt(int64(now.Day()))
	return currentTotal.Div(day).Mul(decimal.NewFromInt(int64(daysInMonth(now))))
}

// excessPct expresses how far actual runs above baseline, in whole percent.
func excessPct(actual, baseline decimal.Decimal) int64 {
	if !baseline.IsPositive() {
		return 0
	}
	return actual.Sub(baseline).Div(baseline).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func ruleDailyAnomaly(ec economicContext, th Thresholds) (models.Alert, bool) {
	if ec.baselineCount < th.DailyAnomalyMinSamples {
		return models.Alert{}, false
	}
	if !ec.dailyAverage.IsPositive() {
		return models.Alert{}, false
	}
	if ec.todayTotal.LessThanOrEqual(ec.dailyAverage.Mul(th.DailyAnomalyRatio)) {
		return models.Alert{}, false
	}

	excess := excessPct(ec.todayTotal, ec.dailyAverage)
	severity := models.SeverityMedium
	if decimal.NewFromInt(excess).GreaterThanOrEqual(th.DailyAnomalyHighExcess.Mul(decimal.NewFromInt(100))) {
		severity = models.SeverityHigh
	}

	return models.Alert{
		Id:       models.AlertId(models.PillarEconomic, models.RuleDailyAnomaly),
		Pillar:   models.PillarEconomic,
		Rule:     models.RuleDailyAnomaly,
		Text: fmt.Sprintf("Today's spending (%s) is %d%% above your daily average of %s.",
			ec.todayTotal.StringFixed(2), excess, ec.dailyAverage.StringFixed(2)),
		Priority: 1,
		Severity: severity,
		CTA:      models.CTA{Kind: models.CTANavigate, Target: "transactions"},
		Data: models.DailyAnomalyData{
			TodayTotal:   ec.todayTotal.StringFixed(2),
			DailyAverage: ec.dailyAverage.StringFixed(2),
			ExcessPct:    excess,
		},
	}, true
}

func ruleMonthlyOverspend(ec economicContext, th Thresholds) (models.Alert, bool) {
	if !ec.hasBaseline || !ec.currentMonth.IsPositive() {
		return models.Alert{}, false
	}
	if ec.projection.LessThanOrEqual(ec.historicalAvg.Mul(th.MonthlyOverspendRatio)) {
		return models.Alert{}, false
	}

	excess := excessPct(ec.projection, ec.historicalAvg)
	severity := models.SeverityMedium
	if decimal.NewFromInt(excess).GreaterThanOrEqual(th.MonthlyOverspendHighExcess.Mul(decimal.NewFromInt(100))) {
		severity = models.SeverityHigh
	}

	return models.Alert{
		Id:       models.AlertId(models.PillarEconomic, models.RuleMonthlyOverspend),
		Pillar:   models.PillarEconomic,
		Rule:     models.RuleMonthlyOverspend,
		Text: fmt.Sprintf("This month is projected to reach %s, %d%% above your recent monthly average of %s.",
			ec.projection.StringFixed(2), excess, ec.historicalAvg.StringFixed(2)),
		Priority: 2,
		Severity: severity,
		CTA:      models.CTA{Kind: models.CTANavigate, Target: "budget"},
		Data: models.MonthlyOverspendData{
			Projected:         ec.projection.StringFixed(2),
			HistoricalAverage: ec.historicalAvg.StringFixed(2),
			ExcessPct:         excess,
		},
	}, true
}

func ruleCategoryOverflow(ec economicContext, th Thresholds, now time.Time) (models.Alert, bool) {
	if !ec.currentMonth.IsPositive() {
		return models.Alert{}, false
	}

	currentKey := monthKey(now)
	prior := priorMonths(now, 3)

	type offender struct {
		category  string
		projected decimal.Decimal
		average   decimal.Decimal
		excess    int64
	}
	var worst *offender

	categories := make([]string, 0, len(ec.categoryMonth))
	for cat := range ec.categoryMonth {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		byMonth := ec.categoryMonth[cat]
		current := byMonth[currentKey]
		if !current.IsPositive() {
			continue
		}
		share := current.Div(ec.currentMonth)
		if share.LessThan(th.CategoryShareFloor) {
			continue
		}

		// Historical average over distinct months with any spend in this
		// category, capped at the 3 prior months. This deliberately differs
		// from the fixed window of the overall overspend rule: a category
		// that only existed for one month keeps an honest baseline.
		sum := decimal.Zero
		months := 0
		for _, mk := range prior {
			if v, ok := byMonth[mk]; ok && v.IsPositive() {
				sum = sum.Add(v)
				months++
			}
		}
		if months == 0 {
			continue
		}
		average := sum.Div(decimal.NewFromInt(int64(months)))
		projected := projectMonth(current, now)
		if projected.LessThanOrEqual(average.Mul(th.CategoryOverflowRatio)) {
			continue
		}

		excess := excessPct(projected, average)
		if worst == nil || excess > worst.excess {
			worst = &offender{category: cat, projected: projected, average: average, excess: excess}
		}
	}

	if worst == nil {
		return models.Alert{}, false
	}

	return models.Alert{
		Id:       models.AlertIdForEntity(models.PillarEconomic, models.RuleCategoryOverflow, worst.category),
		Pillar:   models.PillarEconomic,
		Rule:     models.RuleCategoryOverflow,
		Text: fmt.Sprintf("Spending on %s is projected at %s this month, %d%% above its usual %s.",
			worst.category, worst.projected.StringFixed(2), worst.excess, worst.average.StringFixed(2)),
		Priority: 3,
		Severity: models.SeverityMedium,
		CTA:      models.CTA{Kind: models.CTANavigate, Target: "categories"},
		Data: models.CategoryOverflowData{
			Category:          worst.category,
			Projected:         worst.projected.StringFixed(2),
			HistoricalAverage: worst.average.StringFixed(2),
			ExcessPct:         worst.excess,
		},
	}, true
}

func subscriptionMonthlyLoad(subs []models.Subscription) decimal.Decimal {
	load := decimal.Zero
	for _, s := range subs {
		if !s.Active {
			continue
		}
		load = load.Add(s.MonthlyCost())
	}
	return load
}

func ruleHeavySubscriptions(ec economicContext, subs []models.Subscription, th Thresholds) (models.Alert, bool) {
	if !ec.hasBaseline {
		return models.Alert{}, false
	}
	load := subscriptionMonthlyLoad(subs)
	if !load.IsPositive() {
		return models.Alert{}, false
	}

	share := load.Div(ec.historicalAvg)
	if share.LessThan(th.SubscriptionShareFloor) {
		return models.Alert{}, false
	}

	severity := models.SeverityMedium
	if share.GreaterThanOrEqual(th.SubscriptionShareHigh) {
		severity = models.SeverityHigh
	}
	sharePct := share.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	return models.Alert{
		Id:       models.AlertId(models.PillarEconomic, models.RuleHeavySubscriptions),
		Pillar:   models.PillarEconomic,
		Rule:     models.RuleHeavySubscriptions,
		Text: fmt.Sprintf("Subscriptions cost %s per month, %d%% of your average monthly spending.",
			load.StringFixed(2), sharePct),
		Priority: 4,
		Severity: severity,
		CTA:      models.CTA{Kind: models.CTANavigate, Target: "subscriptions"},
		Data: models.HeavySubscriptionsData{
			MonthlyLoad:         load.StringFixed(2),
			AverageMonthlySpend: ec.historicalAvg.StringFixed(2),
			SharePct:            sharePct,
		},
	}, true
}

func ruleExpensivePrice(ec economicContext, prices models.PriceHistory, th Thresholds, now time.Time) (models.Alert, bool) {
	if len(prices) == 0 {
		return models.Alert{}, false
	}

	recent := make([]models.Transaction, 0)
	for _, tx := range ec.expenses {
		gap := daysBetween(tx.Date, now)
		if gap >= 0 && gap < 7 {
			recent = append(recent, tx)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })

	products := make([]string, 0, len(prices))
	for p := range prices {
		products = append(products, p)
	}
	sort.Strings(products)

	for _, tx := range recent {
		desc := strings.ToLower(tx.Description)
		if desc == "" {
			continue
		}
		for _, product := range products {
			name := strings.ToLower(product)
			if !strings.Contains(desc, name) && !strings.Contains(name, desc) {
				continue
			}
			points := prices[product]
			if len(points) < th.PriceMinPoints {
				continue
			}
			sum := decimal.Zero
			for _, p := range points {
				sum = sum.Add(p.Amount)
			}
			average := sum.Div(decimal.NewFromInt(int64(len(points))))
			if tx.Amount.LessThanOrEqual(average.Mul(th.PriceExcessRatio)) {
				continue
			}

			excess := excessPct(tx.Amount, average)
			return models.Alert{
				Id:       models.AlertIdForEntity(models.PillarEconomic, models.RuleExpensivePrice, product),
				Pillar:   models.PillarEconomic,
				Rule:     models.RuleExpensivePrice,
				Text: fmt.Sprintf("You paid %s for %s, %d%% above its tracked average of %s.",
					tx.Amount.StringFixed(2), product, excess, average.StringFixed(2)),
				Priority: 5,
				Severity: models.SeverityMedium,
				CTA:      models.CTA{Kind: models.CTANavigate, Target: "price-history"},
				Data: models.ExpensivePriceData{
					Product:           product,
					Amount:            tx.Amount.StringFixed(2),
					HistoricalAverage: average.StringFixed(2),
					ExcessPct:         excess,
				},
			}, true
		}
	}
	return models.Alert{}, false
}

func ruleNoExpenseRecords(ec economicContext, th Thresholds, now time.Time) (models.Alert, bool) {
	if len(ec.expenses) == 0 {
		return models.Alert{
			Id:       models.AlertId(models.PillarEconomic, models.RuleNoExpenseRecords),
			Pillar:   models.PillarEconomic,
			Rule:     models.RuleNoExpenseRecords,
			Text:     "You haven't recorded any expenses yet. Log your first one to start tracking.",
			Priority: 6,
			Severity: models.SeverityLow,
			CTA:      models.CTA{Kind: models.CTACompose, Target: "expense"},
			Data:     models.NoExpenseRecordsData{HasAny: false, DaysSinceLast: -1},
		}, true
	}

	latest := ec.expenses[0].Date
	for _, tx := range ec.expenses[1:] {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	gap := daysBetween(latest, now)
	if gap < th.ExpenseStaleDays {
		return models.Alert{}, false
	}

	severity := models.SeverityLow
	if gap >= th.ExpenseStaleMediumDays {
		severity = models.SeverityMedium
	}

	return models.Alert{
		Id:       models.AlertId(models.PillarEconomic, models.RuleNoExpenseRecords),
		Pillar:   models.PillarEconomic,
		Rule:     models.RuleNoExpenseRecords,
		Text:     fmt.Sprintf("No expenses recorded in %d days. Keep your records up to date.", gap),
		Priority: 6,
		Severity: severity,
		CTA:      models.CTA{Kind: models.CTACompose, Target: "expense"},
		Data:     models.NoExpenseRecordsData{HasAny: true, DaysSinceLast: gap},
	}, true
}

func economicInsights(ec economicContext, subs []models.Subscription, th Thresholds) []models.Insight {
	var insights []models.Insight

	if ec.hasBaseline && ec.currentMonth.IsPositive() {
		ratio := ec.projection.Div(ec.historicalAvg)
		if ratio.GreaterThan(decimal.RequireFromString("1.05")) {
			insights = append(insights, models.Insight{
				Id:     models.InsightId(models.PillarEconomic, models.InsightSpendingTrend),
				Pillar: models.PillarEconomic,
				Type:   models.InsightSpendingTrend,
				Text: fmt.Sprintf("Spending this month is trending above your recent monthly average (%s projected vs %s).",
					ec.projection.StringFixed(2), ec.historicalAvg.StringFixed(2)),
			})
		} else if ratio.LessThan(decimal.RequireFromString("0.95")) {
			insights = append(insights, models.Insight{
				Id:     models.InsightId(models.PillarEconomic, models.InsightSpendingTrend),
				Pillar: models.PillarEconomic,
				Type:   models.InsightSpendingTrend,
				Text: fmt.Sprintf("Spending this month is trending below your recent monthly average (%s projected vs %s).",
					ec.projection.StringFixed(2), ec.historicalAvg.StringFixed(2)),
			})
		}
	}

	if topCat, share, ok := topCategoryShare(ec); ok && share.GreaterThanOrEqual(decimal.RequireFromString("0.30")) {
		sharePct := share.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		insights = append(insights, models.Insight{
			Id:     models.InsightId(models.PillarEconomic, models.InsightCategoryShare),
			Pillar: models.PillarEconomic,
			Type:   models.InsightCategoryShare,
			Text:   fmt.Sprintf("%s accounts for %d%% of this month's spending.", topCat, sharePct),
		})
	}

	if ec.hasBaseline {
		load := subscriptionMonthlyLoad(subs)
		if load.IsPositive() {
			share := load.Div(ec.historicalAvg)
			if share.GreaterThanOrEqual(decimal.RequireFromString("0.10")) {
				sharePct := share.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
				insights = append(insights, models.Insight{
					Id:     models.InsightId(models.PillarEconomic, models.InsightSubscriptionLoad),
					Pillar: models.PillarEconomic,
					Type:   models.InsightSubscriptionLoad,
					Text:   fmt.Sprintf("Recurring subscriptions make up %d%% of your typical monthly spending.", sharePct),
				})
			}
		}
	}

	if len(insights) > maxInsightsPerPillar {
		insights = insights[:maxInsightsPerPillar]
	}
	return insights
}

// topCategoryShare finds the current month's largest category and its share
// of the month total. Ties resolve alphabetically.
func topCategoryShare(ec economicContext) (string, decimal.Decimal, bool) {
	if !ec.currentMonth.IsPositive() {
		return "", decimal.Zero, false
	}

	categories := make([]string, 0, len(ec.categoryMonth))
	for cat := range ec.categoryMonth {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	best := ""
	bestAmount := decimal.Zero
	for _, cat := range categories {
		amount := ec.categoryMonth[cat][ec.currentKey]
		if amount.GreaterThan(bestAmount) {
			best = cat
			bestAmount = amount
		}
	}
	if best == "" {
		return "", decimal.Zero, false
	}
	return best, bestAmount.Div(ec.currentMonth), true
}

func economicSnapshot(ec economicContext, subs []models.Subscription) models.EconomicSnapshot {
	spend30 := ec.baselineTotal.Add(ec.todayTotal)
	return models.EconomicSnapshot{
		Spend30Days:             spend30.StringFixed(2),
		DailyAverage:            ec.dailyAverage.StringFixed(2),
		MonthProjection:         ec.projection.StringFixed(2),
		SubscriptionMonthlyLoad: subscriptionMonthlyLoad(subs).StringFixed(2),
		ExpenseCount30Days:      ec.baselineCount,
	}
}
