package engine

import (
	"testing"

	"pillar-alerts-go/internal/models"
)

func mkAlert(pillar models.Pillar, rule models.RuleType, severity models.Severity, local int) models.Alert {
	return models.Alert{
		Id:       models.AlertId(pillar, rule),
		Pillar:   pillar,
		Rule:     rule,
		Severity: severity,
		Priority: local,
	}
}

func TestMergeBandOrdering(t *testing.T) {
	econ := []models.Alert{
		mkAlert(models.PillarEconomic, models.RuleHeavySubscriptions, models.SeverityHigh, 4),
		mkAlert(models.PillarEconomic, models.RuleDailyAnomaly, models.SeverityMedium, 1),
	}
	mental := []models.Alert{
		mkAlert(models.PillarMental, models.RuleSustainedLowMood, models.SeverityHigh, 1),
	}

	merged := Merge(10, econ, mental)

	// A medium economic-critical alert still outranks a high mental one, and
	// both outrank the high secondary economic alert.
	want := []models.RuleType{
		models.RuleDailyAnomaly,
		models.RuleSustainedLowMood,
		models.RuleHeavySubscriptions,
	}
	if len(merged) != len(want) {
		t.Fatalf("Expected %d alerts, got %d", len(want), len(merged))
	}
	for i, rule := range want {
		if merged[i].Rule != rule {
			t.Errorf("Position %d: expected %s, got %s", i, rule, merged[i].Rule)
		}
	}
}

func TestMergeRewritesPriorityToBand(t *testing.T) {
	merged := Merge(10,
		[]models.Alert{mkAlert(models.PillarEconomic, models.RuleDailyAnomaly, models.SeverityHigh, 1)},
		[]models.Alert{mkAlert(models.PillarMental, models.RuleSharpMoodDrop, models.SeverityHigh, 2)},
		[]models.Alert{mkAlert(models.PillarEconomic, models.RuleExpensivePrice, models.SeverityMedium, 5)},
	)

	wantBands := []int{bandEconomicCritical, bandMentalCritical, bandEconomicSecondary}
	for i, band := range wantBands {
		if merged[i].Priority != band {
			t.Errorf("Position %d: expected band %d, got %d", i, band, merged[i].Priority)
		}
	}
}

func TestMergeSeverityBreaksBandTies(t *testing.T) {
	merged := Merge(10,
		[]models.Alert{mkAlert(models.PillarEconomic, models.RuleMonthlyOverspend, models.SeverityMedium, 2)},
		[]models.Alert{mkAlert(models.PillarEconomic, models.RuleDailyAnomaly, models.SeverityHigh, 1)},
	)

	if merged[0].Rule != models.RuleDailyAnomaly {
		t.Errorf("Expected the high-severity alert first within the band, got %s", merged[0].Rule)
	}
}

func TestMergeTruncatesToCap(t *testing.T) {
	merged := Merge(3,
		[]models.Alert{
			mkAlert(models.PillarEconomic, models.RuleDailyAnomaly, models.SeverityHigh, 1),
			mkAlert(models.PillarEconomic, models.RuleMonthlyOverspend, models.SeverityHigh, 2),
		},
		[]models.Alert{mkAlert(models.PillarMental, models.RuleSharpMoodDrop, models.SeverityHigh, 2)},
		[]models.Alert{mkAlert(models.PillarPhysical, models.RuleAbandonmentRisk, models.SeverityMedium, 2)},
	)

	if len(merged) != 3 {
		t.Fatalf("Expected 3 alerts, got %d", len(merged))
	}
	for _, a := range merged {
		if a.Rule == models.RuleAbandonmentRisk {
			t.Error("Expected the lowest-band alert to be cut by the cap")
		}
	}
}

func TestNeverRecordedInactivityRanksAsNudge(t *testing.T) {
	noData := models.Alert{
		Id:       models.AlertId(models.PillarPhysical, models.RuleCriticalInactivity),
		Pillar:   models.PillarPhysical,
		Rule:     models.RuleCriticalInactivity,
		Severity: models.SeverityMedium,
		Priority: 1,
		Data:     models.CriticalInactivityData{HasAny: false, DaysSinceLast: -1},
	}
	realGap := models.Alert{
		Id:       models.AlertId(models.PillarPhysical, models.RuleCriticalInactivity),
		Pillar:   models.PillarPhysical,
		Rule:     models.RuleCriticalInactivity,
		Severity: models.SeverityMedium,
		Priority: 1,
		Data:     models.CriticalInactivityData{HasAny: true, DaysSinceLast: 16},
	}

	if band := priorityBand(noData); band != bandNoRecords {
		t.Errorf("Expected never-recorded variant in the nudge band, got %d", band)
	}
	if band := priorityBand(realGap); band != bandPhysicalCritical {
		t.Errorf("Expected real inactivity gap in the physical critical band, got %d", band)
	}
}

func TestMergeDeterministicAcrossInputOrder(t *testing.T) {
	a := mkAlert(models.PillarEconomic, models.RuleDailyAnomaly, models.SeverityHigh, 1)
	b := mkAlert(models.PillarMental, models.RuleSustainedLowMood, models.SeverityHigh, 1)
	c := mkAlert(models.PillarPhysical, models.RuleAbandonmentRisk, models.SeverityMedium, 2)

	first := Merge(3, []models.Alert{a}, []models.Alert{b}, []models.Alert{c})
	second := Merge(3, []models.Alert{c}, []models.Alert{b}, []models.Alert{a})

	if len(first) != len(second) {
		t.Fatalf("Merge results differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Id != second[i].Id {
			t.Errorf("Position %d differs across input orders: %s vs %s", i, first[i].Id, second[i].Id)
		}
	}
}
