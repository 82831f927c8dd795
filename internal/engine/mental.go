package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pillar-alerts-go/internal/models"
)

// MentalResult is the mental evaluator's full output for one run. The alert
// slice never holds more than one entry: only the most urgent matching rule
// is reported.
type MentalResult struct {
	Alerts   []models.Alert
	Insights []models.Insight
	Snapshot models.MentalSnapshot
}

// EvaluateMental runs the mood rules against the given records at the given
// instant.
func EvaluateMental(records []models.MentalRecord, th Thresholds, now time.Time) MentalResult {
	sorted := make([]models.MentalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	var alerts []models.Alert
	if a, ok := ruleSustainedLowMood(sorted, th); ok {
		alerts = append(alerts, a)
	} else if a, ok := ruleSharpMoodDrop(sorted, th, now); ok {
		alerts = append(alerts, a)
	} else if a, ok := ruleStaleMoodRecords(sorted, th, now); ok {
		alerts = append(alerts, a)
	}

	return MentalResult{
		Alerts:   alerts,
		Insights: mentalInsights(sorted, th, now),
		Snapshot: mentalSnapshot(sorted, now),
	}
}

// ruleSustainedLowMood counts a leading run of records at or below the low
// mood level, most recent first. Consecutive means the most recent N samples,
// not calendar-consecutive days.
func ruleSustainedLowMood(sorted []models.MentalRecord, th Thresholds) (models.Alert, bool) {
	run := 0
	levelSum := 0
	for _, r := range sorted {
		if r.MoodLevel > th.MoodLowLevel {
			break
		}
		run++
		levelSum += r.MoodLevel
	}
	if run < th.MoodLowRunMin {
		return models.Alert{}, false
	}

	severity := models.SeverityMedium
	if run >= th.MoodLowRunHigh {
		severity = models.SeverityHigh
	}
	average := float64(levelSum) / float64(run)

	return models.Alert{
		Id:       models.AlertId(models.PillarMental, models.RuleSustainedLowMood),
		Pillar:   models.PillarMental,
		Rule:     models.RuleSustainedLowMood,
		Text:     fmt.Sprintf("Your last %d mood entries have been low. Consider reaching out or taking a break.", run),
		Priority: 1,
		Severity: severity,
		CTA:      models.CTA{Kind: models.CTANavigate, Target: "mood-history"},
		Data:     models.SustainedLowMoodData{RunLength: run, AverageLevel: average},
	}, true
}

func ruleSharpMoodDrop(sorted []models.MentalRecord, th Thresholds, now time.Time) (models.Alert, bool) {
	if len(sorted) == 0 {
		return models.Alert{}, false
	}

	count := 0
	sum := 0
	for _, r := range sorted {
		gap := daysBetween(r.Date, now)
		if gap < 0 || gap >= 30 {
			continue
		}
		count++
		sum += r.MoodLevel
	}
	if count < th.SharpDropMinSamples {
		return models.Alert{}, false
	}

	baseline := float64(sum) / float64(count)
	latest := sorted[0].MoodLevel
	if float64(latest) > baseline*th.SharpDropRatio {
		return models.Alert{}, false
	}

	return models.Alert{
		Id:       models.AlertId(models.PillarMental, models.RuleSharpMoodDrop),
		Pillar:   models.PillarMental,
		Rule:     models.RuleSharpMoodDrop,
		Text:     fmt.Sprintf("Your latest mood entry (%d) is well below your recent average of %.1f.", latest, baseline),
		Priority: 2,
		Severity: models.SeverityHigh,
		CTA:      models.CTA{Kind: models.CTANavigate, Target: "mood-history"},
		Data:     models.SharpMoodDropData{LatestLevel: latest, BaselineAverage: baseline},
	}, true
}

func ruleStaleMoodRecords(sorted []models.MentalRecord, th Thresholds, now time.Time) (models.Alert, bool) {
	if len(sorted) == 0 {
		return models.Alert{
			Id:       models.AlertId(models.PillarMental, models.RuleStaleMoodRecords),
			Pillar:   models.PillarMental,
			Rule:     models.RuleStaleMoodRecords,
			Text:     "You haven't logged your mood yet. A first entry takes a few seconds.",
			Priority: 3,
			Severity: models.SeverityLow,
			CTA:      models.CTA{Kind: models.CTACompose, Target: "mood"},
			Data:     models.StaleMoodData{HasAny: false, DaysSinceLast: -1},
		}, true
	}

	gap := daysBetween(sorted[0].Date, now)
	if gap < th.MoodStaleDays {
		return models.Alert{}, false
	}

	severity := models.SeverityLow
	if gap >= th.MoodStaleMediumDays {
		severity = models.SeverityMedium
	}

	return models.Alert{
		Id:       models.AlertId(models.PillarMental, models.RuleStaleMoodRecords),
		Pillar:   models.PillarMental,
		Rule:     models.RuleStaleMoodRecords,
		Text:     fmt.Sprintf("No mood entries in %d days. How have you been feeling?", gap),
		Priority: 3,
		Severity: severity,
		CTA:      models.CTA{Kind: models.CTACompose, Target: "mood"},
		Data:     models.StaleMoodData{HasAny: true, DaysSinceLast: gap},
	}, true
}

func mentalInsights(sorted []models.MentalRecord, th Thresholds, now time.Time) []models.Insight {
	var insights []models.Insight

	var last7, last14, last30 []int
	for _, r := range sorted {
		gap := daysBetween(r.Date, now)
		if gap < 0 {
			continue
		}
		if gap < 7 {
			last7 = append(last7, r.MoodLevel)
		}
		if gap < 14 {
			last14 = append(last14, r.MoodLevel)
		}
		if gap < 30 {
			last30 = append(last30, r.MoodLevel)
		}
	}

	if len(last7) >= th.MoodTrendMin7 && len(last30) >= th.MoodTrendMin30 {
		avg7 := meanInt(last7)
		avg30 := meanInt(last30)
		if avg7 < avg30*th.MoodTrendRatio {
			insights = append(insights, models.Insight{
				Id:     models.InsightId(models.PillarMental, models.InsightNegativeTrend),
				Pillar: models.PillarMental,
				Type:   models.InsightNegativeTrend,
				Text:   fmt.Sprintf("Your mood this week (%.1f avg) is trending below your monthly average (%.1f).", avg7, avg30),
			})
		}
	}

	if len(last14) >= th.MoodVariabilityMin {
		if stddev := populationStddev(last14); stddev > th.MoodVariabilityStddev {
			insights = append(insights, models.Insight{
				Id:     models.InsightId(models.PillarMental, models.InsightHighVariability),
				Pillar: models.PillarMental,
				Type:   models.InsightHighVariability,
				Text:   "Your mood has swung a lot over the last two weeks.",
			})
		}
	}

	if len(last14) < th.MoodMissingDataFloor {
		insights = append(insights, models.Insight{
			Id:     models.InsightId(models.PillarMental, models.InsightMissingData),
			Pillar: models.PillarMental,
			Type:   models.InsightMissingData,
			Text:   "Few mood entries in the last two weeks. More data means better observations.",
		})
	}

	if len(insights) > maxInsightsPerPillar {
		insights = insights[:maxInsightsPerPillar]
	}
	return insights
}

func mentalSnapshot(sorted []models.MentalRecord, now time.Time) models.MentalSnapshot {
	days := map[string]bool{}
	var last7, last30 []int
	for _, r := range sorted {
		gap := daysBetween(r.Date, now)
		if gap < 0 {
			continue
		}
		if gap < 14 {
			days[dayOf(r.Date).Format("2006-01-02")] = true
		}
		if gap < 7 {
			last7 = append(last7, r.MoodLevel)
		}
		if gap < 30 {
			last30 = append(last30, r.MoodLevel)
		}
	}

	snapshot := models.MentalSnapshot{
		DaysTracked14: len(days),
		Trend:         "flat",
	}
	if len(last30) > 0 {
		snapshot.AverageMood30 = math.Round(meanInt(last30)*10) / 10
	}
	if len(last7) > 0 && len(last30) > 0 {
		avg7 := meanInt(last7)
		avg30 := meanInt(last30)
		switch {
		case avg7 > avg30*1.05:
			snapshot.Trend = "up"
		case avg7 < avg30*0.95:
			snapshot.Trend = "down"
		}
	}
	return snapshot
}

func meanInt(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func populationStddev(values []int) float64 {
	mean := meanInt(values)
	variance := 0.0
	for _, v := range values {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
