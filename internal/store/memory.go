package store

import (
	"context"
	"time"

	"pillar-alerts-go/internal/models"

	"github.com/patrickmn/go-cache"
)

// Compile-time check: *MemoryStore must satisfy AlertStore.
var _ AlertStore = (*MemoryStore)(nil)

// MemoryStore is the in-memory AlertStore backend. It backs engine tests and
// embedding callers that do not want a database file. The go-cache TTLs act
// as a wall-clock safety net; the explicit Prune pass is what the engine
// relies on, since it works against the caller-supplied clock.
type MemoryStore struct {
	active    *cache.Cache // id -> StoredAlert
	dismissed *cache.Cache // id -> time.Time
}

// NewMemoryStore creates an empty in-memory alert store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		active:    cache.New(AlertMaxAge, time.Hour),
		dismissed: cache.New(2*DismissCooldown, time.Hour),
	}
}

func (m *MemoryStore) Upsert(_ context.Context, alert models.Alert, now time.Time) error {
	stored := StoredAlert{
		Id:              alert.Id,
		Pillar:          alert.Pillar,
		Rule:            alert.Rule,
		Severity:        alert.Severity,
		FirstDetectedAt: now,
		LastTriggeredAt: now,
	}
	if existing, ok := m.active.Get(alert.Id); ok {
		stored.FirstDetectedAt = existing.(StoredAlert).FirstDetectedAt
	}
	m.active.Set(alert.Id, stored, cache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, id string) error {
	m.active.Delete(id)
	return nil
}

func (m *MemoryStore) Dismiss(_ context.Context, id string, now time.Time) error {
	m.dismissed.Set(id, now, cache.DefaultExpiration)
	m.active.Delete(id)
	return nil
}

func (m *MemoryStore) IsDismissed(ctx context.Context, id string, now time.Time) (bool, error) {
	return m.IsDismissedWithin(ctx, id, now, DismissCooldown)
}

func (m *MemoryStore) IsDismissedWithin(_ context.Context, id string, now time.Time, cooldown time.Duration) (bool, error) {
	v, ok := m.dismissed.Get(id)
	if !ok {
		return false, nil
	}
	dismissedAt := v.(time.Time)
	return now.Sub(dismissedAt) < cooldown, nil
}

func (m *MemoryStore) HasTriggeredToday(_ context.Context, id string, now time.Time) (bool, error) {
	v, ok := m.active.Get(id)
	if !ok {
		return false, nil
	}
	last := v.(StoredAlert).LastTriggeredAt
	return sameDay(last, now), nil
}

func (m *MemoryStore) HasTriggeredWithin(_ context.Context, id string, now time.Time, days int) (bool, error) {
	v, ok := m.active.Get(id)
	if !ok {
		return false, nil
	}
	last := v.(StoredAlert).LastTriggeredAt
	return now.Sub(last) < time.Duration(days)*24*time.Hour, nil
}

func (m *MemoryStore) Active(_ context.Context) ([]StoredAlert, error) {
	items := m.active.Items()
	alerts := make([]StoredAlert, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, item.Object.(StoredAlert))
	}
	return alerts, nil
}

func (m *MemoryStore) Prune(_ context.Context, now time.Time) error {
	for id, item := range m.active.Items() {
		if now.Sub(item.Object.(StoredAlert).FirstDetectedAt) > AlertMaxAge {
			m.active.Delete(id)
		}
	}
	for id, item := range m.dismissed.Items() {
		if now.Sub(item.Object.(time.Time)) > 2*DismissCooldown {
			m.dismissed.Delete(id)
		}
	}
	return nil
}

func (m *MemoryStore) Close() {}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
