package engine

import (
	"testing"
	"time"

	"pillar-alerts-go/internal/models"
)

var physNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activities(daysAgo ...int) []models.PhysicalRecord {
	records := make([]models.PhysicalRecord, 0, len(daysAgo))
	for i, d := range daysAgo {
		records = append(records, models.PhysicalRecord{
			Id:           itoa(i),
			Date:         physNow.AddDate(0, 0, -d),
			ActivityType: models.ActivityWalk,
			DurationMin:  30,
		})
	}
	return records
}

func TestCriticalInactivityNoRecords(t *testing.T) {
	result := EvaluatePhysical(nil, DefaultThresholds(), physNow)

	if len(result.Alerts) != 1 {
		t.Fatalf("Expected exactly one physical alert, got %d", len(result.Alerts))
	}
	alert := result.Alerts[0]
	if alert.Rule != models.RuleCriticalInactivity {
		t.Fatalf("Expected critical inactivity, got %s", alert.Rule)
	}
	if alert.Severity != models.SeverityMedium {
		t.Errorf("Expected medium severity with zero records, got %s", alert.Severity)
	}
	data := alert.Data.(models.CriticalInactivityData)
	if data.HasAny || data.DaysSinceLast != -1 {
		t.Errorf("Expected HasAny=false and -1 gap, got %+v", data)
	}
}

func TestCriticalInactivityGapWindows(t *testing.T) {
	// 13 days: nothing. 15 days: medium. 22 days: high.
	result := EvaluatePhysical(activities(13), DefaultThresholds(), physNow)
	for _, a := range result.Alerts {
		if a.Rule == models.RuleCriticalInactivity {
			t.Error("Expected no inactivity alert at a 13-day gap")
		}
	}

	result = EvaluatePhysical(activities(15), DefaultThresholds(), physNow)
	if len(result.Alerts) != 1 || result.Alerts[0].Severity != models.SeverityMedium {
		t.Errorf("Expected medium inactivity alert at 15 days, got %+v", result.Alerts)
	}

	result = EvaluatePhysical(activities(22), DefaultThresholds(), physNow)
	if len(result.Alerts) != 1 || result.Alerts[0].Severity != models.SeverityHigh {
		t.Errorf("Expected high inactivity alert at 22 days, got %+v", result.Alerts)
	}
}

func TestAbandonmentRisk(t *testing.T) {
	// Steady twice-a-week routine that stopped 11 days ago.
	result := EvaluatePhysical(activities(11, 14, 17, 20, 23, 26, 29, 32), DefaultThresholds(), physNow)

	if len(result.Alerts) != 1 {
		t.Fatalf("Expected exactly one physical alert, got %d", len(result.Alerts))
	}
	alert := result.Alerts[0]
	if alert.Rule != models.RuleAbandonmentRisk {
		t.Fatalf("Expected abandonment risk, got %s", alert.Rule)
	}
	data := alert.Data.(models.AbandonmentRiskData)
	if data.GapDays != 11 {
		t.Errorf("Expected 11-day gap, got %d", data.GapDays)
	}
	if data.ActiveDaysPerWeek < 2 {
		t.Errorf("Expected at least 2 active days per week, got %.1f", data.ActiveDaysPerWeek)
	}
}

func TestAbandonmentRiskNeedsPriorRoutine(t *testing.T) {
	// Same 11-day gap but only a couple of scattered sessions before it.
	result := EvaluatePhysical(activities(11, 25), DefaultThresholds(), physNow)
	for _, a := range result.Alerts {
		if a.Rule == models.RuleAbandonmentRisk {
			t.Error("Expected no abandonment alert without a prior routine")
		}
	}
}

func TestAbandonmentRiskYieldsToCriticalInactivity(t *testing.T) {
	// At a 15-day gap the critical rule owns the alert even with a routine.
	result := EvaluatePhysical(activities(15, 18, 21, 24, 27, 30, 33, 36), DefaultThresholds(), physNow)
	if len(result.Alerts) != 1 || result.Alerts[0].Rule != models.RuleCriticalInactivity {
		t.Errorf("Expected critical inactivity to take precedence, got %+v", result.Alerts)
	}
}

func TestSameDayRecordsCollapse(t *testing.T) {
	// Three sessions on one day are a single active day.
	records := []models.PhysicalRecord{
		{Id: "a", Date: physNow, ActivityType: models.ActivityWalk, DurationMin: 20},
		{Id: "b", Date: physNow.Add(-3 * time.Hour), ActivityType: models.ActivityRun, DurationMin: 25},
		{Id: "c", Date: physNow.Add(-6 * time.Hour), ActivityType: models.ActivityWalk, DurationMin: 15},
	}

	result := EvaluatePhysical(records, DefaultThresholds(), physNow)

	if result.Snapshot.ActiveDays14 != 1 {
		t.Errorf("Expected 1 active day, got %d", result.Snapshot.ActiveDays14)
	}
}

func TestProlongedInactivityInsight(t *testing.T) {
	result := EvaluatePhysical(activities(11), DefaultThresholds(), physNow)

	found := false
	for _, in := range result.Insights {
		if in.Type == models.InsightProlongedInactivity {
			found = true
		}
	}
	if !found {
		t.Error("Expected a prolonged inactivity insight at an 11-day gap")
	}
}

func TestConsistencyDropInsight(t *testing.T) {
	// Four active days two weeks ago, one since.
	result := EvaluatePhysical(activities(2, 15, 18, 21, 24), DefaultThresholds(), physNow)

	found := false
	for _, in := range result.Insights {
		if in.Type == models.InsightConsistencyDrop {
			found = true
		}
	}
	if !found {
		t.Error("Expected a consistency drop insight")
	}
}

func TestIrregularityInsight(t *testing.T) {
	// Weekly bursts: four 7-day gaps inside the month.
	result := EvaluatePhysical(activities(1, 8, 15, 22, 29), DefaultThresholds(), physNow)

	found := false
	for _, in := range result.Insights {
		if in.Type == models.InsightIrregularity {
			found = true
		}
	}
	if !found {
		t.Error("Expected an irregularity insight for bursty activity")
	}
}

func TestPhysicalSnapshotStreak(t *testing.T) {
	// Active today and the two days before: streak of 3.
	result := EvaluatePhysical(activities(0, 1, 2, 7), DefaultThresholds(), physNow)

	if result.Snapshot.CurrentStreak != 3 {
		t.Errorf("Expected streak of 3, got %d", result.Snapshot.CurrentStreak)
	}
	if result.Snapshot.ActiveDays14 != 4 {
		t.Errorf("Expected 4 active days, got %d", result.Snapshot.ActiveDays14)
	}
	if result.Snapshot.DaysSinceLast != 0 {
		t.Errorf("Expected 0 days since last, got %d", result.Snapshot.DaysSinceLast)
	}

	// Streak ending yesterday still counts; a two-day-old end does not.
	result = EvaluatePhysical(activities(1, 2, 3), DefaultThresholds(), physNow)
	if result.Snapshot.CurrentStreak != 3 {
		t.Errorf("Expected streak of 3 ending yesterday, got %d", result.Snapshot.CurrentStreak)
	}

	result = EvaluatePhysical(activities(2, 3), DefaultThresholds(), physNow)
	if result.Snapshot.CurrentStreak != 0 {
		t.Errorf("Expected no streak with a 2-day-old end, got %d", result.Snapshot.CurrentStreak)
	}
}
