package engine

import (
	"sort"

	"pillar-alerts-go/internal/models"
)

// Global priority bands, ascending = more urgent. Financial and then
// mental-health urgency outrank secondary financial noise; "no data" nudges
// come last regardless of pillar.
const (
	bandEconomicCritical  = 1
	bandMentalCritical    = 2
	bandPhysicalCritical  = 3
	bandEconomicSecondary = 4
	bandNoRecords         = 5
)

func priorityBand(a models.Alert) int {
	switch a.Rule {
	case models.RuleDailyAnomaly, models.RuleMonthlyOverspend:
		return bandEconomicCritical
	case models.RuleSustainedLowMood, models.RuleSharpMoodDrop:
		return bandMentalCritical
	case models.RuleCriticalInactivity:
		// A genuine inactivity gap is a critical physical signal; the
		// never-recorded-anything variant is a "no data" nudge.
		if data, ok := a.Data.(models.CriticalInactivityData); ok && !data.HasAny {
			return bandNoRecords
		}
		return bandPhysicalCritical
	case models.RuleAbandonmentRisk:
		return bandPhysicalCritical
	case models.RuleCategoryOverflow, models.RuleHeavySubscriptions, models.RuleExpensivePrice:
		return bandEconomicSecondary
	default:
		return bandNoRecords
	}
}

// Merge assigns each pillar alert its global band, sorts the union by
// (band, severity) and truncates to maxAlerts. Each returned alert carries
// its band in the Priority field. Ties sort by the rule's pillar-local
// priority and then by id, so the ordering is fully deterministic no matter
// which pillar finished evaluating first.
func Merge(maxAlerts int, lists ...[]models.Alert) []models.Alert {
	type ranked struct {
		alert models.Alert
		band  int
		local int
	}

	var merged []ranked
	for _, list := range lists {
		for _, a := range list {
			merged = append(merged, ranked{alert: a, band: priorityBand(a), local: a.Priority})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].band != merged[j].band {
			return merged[i].band < merged[j].band
		}
		si, sj := models.SeverityRank(merged[i].alert.Severity), models.SeverityRank(merged[j].alert.Severity)
		if si != sj {
			return si < sj
		}
		if merged[i].local != merged[j].local {
			return merged[i].local < merged[j].local
		}
		return merged[i].alert.Id < merged[j].alert.Id
	})

	if len(merged) > maxAlerts {
		merged = merged[:maxAlerts]
	}

	alerts := make([]models.Alert, 0, len(merged))
	for _, r := range merged {
		a := r.alert
		a.Priority = r.band
		alerts = append(alerts, a)
	}
	return alerts
}
