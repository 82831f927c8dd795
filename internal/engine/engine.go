package engine

import (
	"context"
	"sync"
	"time"

	"pillar-alerts-go/internal/models"
	"pillar-alerts-go/internal/store"

	"go.uber.org/zap"
)

const (
	// DefaultMaxAlerts caps the unified alert feed.
	DefaultMaxAlerts = 3

	maxInsightsPerPillar = 3
)

// Input bundles every record source an engine run reads. All slices are
// read-only to the engine.
type Input struct {
	Transactions    []models.Transaction
	Subscriptions   []models.Subscription
	Prices          models.PriceHistory
	MentalRecords   []models.MentalRecord
	PhysicalRecords []models.PhysicalRecord
}

// Snapshots groups the per-pillar dashboard rollups.
type Snapshots struct {
	Economic models.EconomicSnapshot `json:"economic"`
	Mental   models.MentalSnapshot   `json:"mental"`
	Physical models.PhysicalSnapshot `json:"physical"`
}

// Output is what one engine run hands back to the caller.
type Output struct {
	Alerts    []models.Alert                     `json:"alerts"`
	Insights  map[models.Pillar][]models.Insight `json:"insights"`
	Snapshots Snapshots                          `json:"snapshots"`
}

// Engine orchestrates the three pillar evaluators, the priority resolver and
// the alert lifecycle store.
type Engine struct {
	store      store.AlertStore
	thresholds Thresholds
	maxAlerts  int
}

// New creates an engine around the given lifecycle store.
func New(s store.AlertStore, th Thresholds, maxAlerts int) *Engine {
	if maxAlerts <= 0 {
		maxAlerts = DefaultMaxAlerts
	}
	return &Engine{store: s, thresholds: th, maxAlerts: maxAlerts}
}

// Run evaluates every pillar against the inputs at the given instant,
// suppresses dismissed alerts, persists the survivors and returns the capped
// feed. Store failures never fail the run: a failed read degrades to "no
// suppression data" and a failed write is logged and swallowed.
func (e *Engine) Run(ctx context.Context, in Input, now time.Time) Output {
	var (
		econ     EconomicResult
		mental   MentalResult
		physical PhysicalResult
	)

	// The evaluators share no state, so they run in parallel; ordering is
	// irrelevant because the resolver re-sorts globally.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		econ = EvaluateEconomic(EconomicInput{
			Transactions:  in.Transactions,
			Subscriptions: in.Subscriptions,
			Prices:        in.Prices,
		}, e.thresholds, now)
	}()
	go func() {
		defer wg.Done()
		mental = EvaluateMental(in.MentalRecords, e.thresholds, now)
	}()
	go func() {
		defer wg.Done()
		physical = EvaluatePhysical(in.PhysicalRecords, e.thresholds, now)
	}()
	wg.Wait()

	alerts := Merge(e.maxAlerts,
		e.withoutDismissed(ctx, econ.Alerts, now),
		e.withoutDismissed(ctx, mental.Alerts, now),
		e.withoutDismissed(ctx, physical.Alerts, now),
	)

	for _, a := range alerts {
		if err := e.store.Upsert(ctx, a, now); err != nil {
			zap.L().Warn("Failed to persist alert, returning it anyway",
				zap.String("alert_id", a.Id),
				zap.Error(err))
		}
	}
	if err := e.store.Prune(ctx, now); err != nil {
		zap.L().Warn("Alert store pruning failed", zap.Error(err))
	}

	return Output{
		Alerts: alerts,
		Insights: map[models.Pillar][]models.Insight{
			models.PillarEconomic: econ.Insights,
			models.PillarMental:   mental.Insights,
			models.PillarPhysical: physical.Insights,
		},
		Snapshots: Snapshots{
			Economic: econ.Snapshot,
			Mental:   mental.Snapshot,
			Physical: physical.Snapshot,
		},
	}
}

// Dismiss suppresses an alert for the store's dismissal cooldown.
func (e *Engine) Dismiss(ctx context.Context, id string, now time.Time) error {
	return e.store.Dismiss(ctx, id, now)
}

// withoutDismissed filters a pillar's alerts through the dismissal cooldown.
// The filter runs before the global merge so a suppressed alert never
// occupies one of the capped feed slots.
func (e *Engine) withoutDismissed(ctx context.Context, alerts []models.Alert, now time.Time) []models.Alert {
	if len(alerts) == 0 {
		return nil
	}
	kept := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		dismissed, err := e.store.IsDismissed(ctx, a.Id, now)
		if err != nil {
			zap.L().Warn("Dismissal check failed, treating alert as not dismissed",
				zap.String("alert_id", a.Id),
				zap.Error(err))
			dismissed = false
		}
		if dismissed {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}
