package engine

import (
	"fmt"
	"sort"
	"time"

	"pillar-alerts-go/internal/models"
)

// PhysicalResult is the physical evaluator's full output for one run. As with
// the mental pillar, at most one alert is reported.
type PhysicalResult struct {
	Alerts   []models.Alert
	Insights []models.Insight
	Snapshot models.PhysicalSnapshot
}

// EvaluatePhysical runs the activity rules against the given records at the
// given instant. Same-day entries count as a single active day everywhere.
func EvaluatePhysical(records []models.PhysicalRecord, th Thresholds, now time.Time) PhysicalResult {
	days := activeDays(records)

	var alerts []models.Alert
	if a, ok := ruleCriticalInactivity(days, th, now); ok {
		alerts = append(alerts, a)
	} else if a, ok := ruleAbandonmentRisk(days, th, now); ok {
		alerts = append(alerts, a)
	}

	return PhysicalResult{
		Alerts:   alerts,
		Insights: physicalInsights(days, th, now),
		Snapshot: physicalSnapshot(days, now),
	}
}

// activeDays collapses records to their distinct calendar days, sorted
// ascending.
func activeDays(records []models.PhysicalRecord) []time.Time {
	seen := map[string]time.Time{}
	for _, r := range records {
		day := dayOf(r.Date)
		seen[day.Format("2006-01-02")] = day
	}
	days := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func daysSinceLastActive(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return -1
	}
	return daysBetween(days[len(days)-1], now)
}

func ruleCriticalInactivity(days []time.Time, th Thresholds, now time.Time) (models.Alert, bool) {
	if len(days) == 0 {
		return models.Alert{
			Id:       models.AlertId(models.PillarPhysical, models.RuleCriticalInactivity),
			Pillar:   models.PillarPhysical,
			Rule:     models.RuleCriticalInactivity,
			Text:     "No physical activity recorded yet. Even a short walk counts.",
			Priority: 1,
			Severity: models.SeverityMedium,
			CTA:      models.CTA{Kind: models.CTACompose, Target: "activity"},
			Data:     models.CriticalInactivityData{HasAny: false, DaysSinceLast: -1},
		}, true
	}

	gap := daysSinceLastActive(days, now)
	if gap < th.InactivityAlertDays {
		return models.Alert{}, false
	}

	severity := models.SeverityMedium
	if gap >= th.InactivityHighDays {
		severity = models.SeverityHigh
	}

	return models.Alert{
		Id:       models.AlertId(models.PillarPhysical, models.RuleCriticalInactivity),
		Pillar:   models.PillarPhysical,
		Rule:     models.RuleCriticalInactivity,
		Text:     fmt.Sprintf("No physical activity in %d days. Time to move again.", gap),
		Priority: 1,
		Severity: severity,
		CTA:      models.CTA{Kind: models.CTACompose, Target: "activity"},
		Data:     models.CriticalInactivityData{HasAny: true, DaysSinceLast: gap},
	}, true
}

// ruleAbandonmentRisk fires when a previously regular routine has stopped:
// the current gap is below the critical threshold but the 28-day window
// ending where the gap began shows a steady rhythm.
func ruleAbandonmentRisk(days []time.Time, th Thresholds, now time.Time) (models.Alert, bool) {
	gap := daysSinceLastActive(days, now)
	if gap < th.AbandonmentGapMin || gap >= th.InactivityAlertDays {
		return models.Alert{}, false
	}

	windowEnd := dayOf(now).AddDate(0, 0, -th.AbandonmentGapMin)
	windowStart := windowEnd.AddDate(0, 0, -28)
	active := 0
	for _, d := range days {
		if d.After(windowStart) && !d.After(windowEnd) {
			active++
		}
	}
	perWeek := float64(active) / 4
	if perWeek < th.AbandonmentActivePerWeek {
		return models.Alert{}, false
	}

	return models.Alert{
		Id:       models.AlertId(models.PillarPhysical, models.RuleAbandonmentRisk),
		Pillar:   models.PillarPhysical,
		Rule:     models.RuleAbandonmentRisk,
		Text:     fmt.Sprintf("Your regular routine stopped %d days ago. Getting back now keeps the habit alive.", gap),
		Priority: 2,
		Severity: models.SeverityMedium,
		CTA:      models.CTA{Kind: models.CTANavigate, Target: "activity-history"},
		Data:     models.AbandonmentRiskData{GapDays: gap, ActiveDaysPerWeek: perWeek},
	}, true
}

func physicalInsights(days []time.Time, th Thresholds, now time.Time) []models.Insight {
	var insights []models.Insight

	if gap := daysSinceLastActive(days, now); gap >= th.ProlongedInactivityDays {
		insights = append(insights, models.Insight{
			Id:     models.InsightId(models.PillarPhysical, models.InsightProlongedInactivity),
			Pillar: models.PillarPhysical,
			Type:   models.InsightProlongedInactivity,
			Text:   fmt.Sprintf("It has been %d days since your last recorded activity.", gap),
		})
	}

	recent, prior := 0, 0
	for _, d := range days {
		gap := daysBetween(d, now)
		switch {
		case gap >= 0 && gap < 14:
			recent++
		case gap >= 14 && gap < 28:
			prior++
		}
	}
	if prior >= th.ConsistencyPriorMin && float64(recent) < float64(prior)*th.ConsistencyDropRatio {
		insights = append(insights, models.Insight{
			Id:     models.InsightId(models.PillarPhysical, models.InsightConsistencyDrop),
			Pillar: models.PillarPhysical,
			Type:   models.InsightConsistencyDrop,
			Text:   fmt.Sprintf("You were active %d days in the previous two weeks but only %d in the last two.", prior, recent),
		})
	}

	if countLargeGaps(days, th, now) >= th.IrregularityGapCount {
		insights = append(insights, models.Insight{
			Id:     models.InsightId(models.PillarPhysical, models.InsightIrregularity),
			Pillar: models.PillarPhysical,
			Type:   models.InsightIrregularity,
			Text:   "Your activity over the last month has come in bursts with long pauses between them.",
		})
	}

	if len(insights) > maxInsightsPerPillar {
		insights = insights[:maxInsightsPerPillar]
	}
	return insights
}

// countLargeGaps counts gaps of at least the irregularity threshold between
// consecutive active days in the trailing 30 days, including the open gap
// from the last active day to now.
func countLargeGaps(days []time.Time, th Thresholds, now time.Time) int {
	var window []time.Time
	for _, d := range days {
		gap := daysBetween(d, now)
		if gap >= 0 && gap < 30 {
			window = append(window, d)
		}
	}
	if len(window) == 0 {
		return 0
	}

	count := 0
	for i := 1; i < len(window); i++ {
		if daysBetween(window[i-1], window[i]) >= th.IrregularityGapDays {
			count++
		}
	}
	if daysBetween(window[len(window)-1], now) >= th.IrregularityGapDays {
		count++
	}
	return count
}

func physicalSnapshot(days []time.Time, now time.Time) models.PhysicalSnapshot {
	snapshot := models.PhysicalSnapshot{DaysSinceLast: daysSinceLastActive(days, now)}

	for _, d := range days {
		gap := daysBetween(d, now)
		if gap >= 0 && gap < 14 {
			snapshot.ActiveDays14++
		}
	}

	// Streak of consecutive active days ending today or yesterday.
	streak := 0
	expected := dayOf(now)
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Equal(expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
			continue
		}
		if streak == 0 && days[i].Equal(dayOf(now).AddDate(0, 0, -1)) {
			streak++
			expected = days[i].AddDate(0, 0, -1)
			continue
		}
		break
	}
	snapshot.CurrentStreak = streak
	return snapshot
}
