package models

import "testing"

func TestAlertIdIsDeterministic(t *testing.T) {
	a := AlertId(PillarEconomic, RuleDailyAnomaly)
	b := AlertId(PillarEconomic, RuleDailyAnomaly)
	if a != b {
		t.Errorf("Expected identical ids, got %q and %q", a, b)
	}
	if a != "econ_daily_anomaly" {
		t.Errorf("Expected econ_daily_anomaly, got %q", a)
	}
}

func TestAlertIdForEntityLowercasesKey(t *testing.T) {
	a := AlertIdForEntity(PillarEconomic, RuleCategoryOverflow, "Food")
	b := AlertIdForEntity(PillarEconomic, RuleCategoryOverflow, "food")
	if a != b {
		t.Errorf("Expected case-insensitive entity ids, got %q and %q", a, b)
	}
	if a != "econ_category_overflow:food" {
		t.Errorf("Unexpected entity id %q", a)
	}
}

func TestAlertIdsDoNotCollideAcrossRules(t *testing.T) {
	seen := map[string]string{}
	ids := []struct {
		pillar Pillar
		rule   RuleType
	}{
		{PillarEconomic, RuleDailyAnomaly},
		{PillarEconomic, RuleMonthlyOverspend},
		{PillarEconomic, RuleCategoryOverflow},
		{PillarEconomic, RuleHeavySubscriptions},
		{PillarEconomic, RuleExpensivePrice},
		{PillarEconomic, RuleNoExpenseRecords},
		{PillarMental, RuleSustainedLowMood},
		{PillarMental, RuleSharpMoodDrop},
		{PillarMental, RuleStaleMoodRecords},
		{PillarPhysical, RuleCriticalInactivity},
		{PillarPhysical, RuleAbandonmentRisk},
	}
	for _, c := range ids {
		id := AlertId(c.pillar, c.rule)
		if prev, ok := seen[id]; ok {
			t.Errorf("Id collision: %q produced by %s and %s/%s", id, prev, c.pillar, c.rule)
		}
		seen[id] = string(c.pillar) + "/" + string(c.rule)
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	if !(SeverityRank(SeverityHigh) < SeverityRank(SeverityMedium) &&
		SeverityRank(SeverityMedium) < SeverityRank(SeverityLow)) {
		t.Error("Severity ranks must order high < medium < low")
	}
}

func TestTransactionCategoryDefault(t *testing.T) {
	tx := Transaction{Category: ""}
	if got := tx.CategoryOrDefault(); got != "Other" {
		t.Errorf("Expected Other, got %q", got)
	}
	tx.Category = "Food"
	if got := tx.CategoryOrDefault(); got != "Food" {
		t.Errorf("Expected Food, got %q", got)
	}
}
