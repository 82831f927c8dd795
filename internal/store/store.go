package store

import (
	"context"
	"errors"
	"time"

	"pillar-alerts-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrAlertNotFound = errors.New("alert not found")
)

const (
	// DismissCooldown is how long a dismissed alert stays suppressed on the
	// economic/mental/physical pathway.
	DismissCooldown = 7 * 24 * time.Hour

	// RecommendationDismissCooldown is the longer cooldown used by the
	// shopping-recommendation pathway, which shares this store contract.
	RecommendationDismissCooldown = 14 * 24 * time.Hour

	// AlertMaxAge is how long an alert may live in the store past its first
	// detection before pruning removes it.
	AlertMaxAge = 30 * 24 * time.Hour
)

// StoredAlert is the persisted copy of an alert. Text, CTA and metrics are
// recomputed on every run; only identity and lifecycle timestamps survive
// between runs.
type StoredAlert struct {
	Id              string          `json:"id"`
	Pillar          models.Pillar   `json:"pillar"`
	Rule            models.RuleType `json:"rule"`
	Severity        models.Severity `json:"severity"`
	FirstDetectedAt time.Time       `json:"first_detected_at"`
	LastTriggeredAt time.Time       `json:"last_triggered_at"`
}

// AlertStore defines the lifecycle contract every backend (SQLite, in-memory)
// must satisfy. All timestamps are supplied by the caller so that engine runs
// stay reproducible under test.
type AlertStore interface {
	// Upsert records that the alert's condition holds at now. An existing
	// entry keeps its FirstDetectedAt; a new entry gets both timestamps set
	// to now.
	Upsert(ctx context.Context, alert models.Alert, now time.Time) error

	// Remove deletes an active alert. Removing an unknown id is not an error.
	Remove(ctx context.Context, id string) error

	// Dismiss records a dismissal timestamp and removes the active alert.
	Dismiss(ctx context.Context, id string, now time.Time) error

	// IsDismissed reports whether the id was dismissed within DismissCooldown.
	IsDismissed(ctx context.Context, id string, now time.Time) (bool, error)

	// IsDismissedWithin is the generalized check used by pathways with a
	// different cooldown (e.g. shopping recommendations).
	IsDismissedWithin(ctx context.Context, id string, now time.Time, cooldown time.Duration) (bool, error)

	// HasTriggeredToday reports whether the alert last triggered on the same
	// calendar day as now.
	HasTriggeredToday(ctx context.Context, id string, now time.Time) (bool, error)

	// HasTriggeredWithin reports whether the alert last triggered in the
	// trailing number of days.
	HasTriggeredWithin(ctx context.Context, id string, now time.Time, days int) (bool, error)

	// Active returns all stored alerts.
	Active(ctx context.Context) ([]StoredAlert, error)

	// Prune drops alerts first detected more than AlertMaxAge ago and
	// dismissal entries older than twice their cooldown.
	Prune(ctx context.Context, now time.Time) error

	Close()
}
