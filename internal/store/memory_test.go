package store

import (
	"context"
	"testing"
	"time"

	"pillar-alerts-go/internal/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Failed to parse time %q: %v", value, err)
	}
	return parsed
}

func testAlert() models.Alert {
	return models.Alert{
		Id:       models.AlertId(models.PillarEconomic, models.RuleDailyAnomaly),
		Pillar:   models.PillarEconomic,
		Rule:     models.RuleDailyAnomaly,
		Text:     "Today's spending is well above your daily average",
		Priority: 1,
		Severity: models.SeverityHigh,
	}
}

func TestUpsertPreservesFirstDetectedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alert := testAlert()

	first := mustTime(t, "2026-03-01T10:00:00Z")
	second := first.Add(48 * time.Hour)

	if err := s.Upsert(ctx, alert, first); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if err := s.Upsert(ctx, alert, second); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	active, err := s.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("Expected 1 active alert, got %d", len(active))
	}
	if !active[0].FirstDetectedAt.Equal(first) {
		t.Errorf("Expected first_detected_at %v, got %v", first, active[0].FirstDetectedAt)
	}
	if !active[0].LastTriggeredAt.Equal(second) {
		t.Errorf("Expected last_triggered_at %v, got %v", second, active[0].LastTriggeredAt)
	}
}

func TestDismissCooldownWindow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alert := testAlert()

	dismissedAt := mustTime(t, "2026-03-01T10:00:00Z")
	if err := s.Upsert(ctx, alert, dismissedAt); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Dismiss(ctx, alert.Id, dismissedAt); err != nil {
		t.Fatalf("Dismiss failed: %v", err)
	}

	// Dismissal also removes the active entry.
	active, err := s.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active alerts after dismissal, got %d", len(active))
	}

	for day := 1; day <= 6; day++ {
		at := dismissedAt.Add(time.Duration(day) * 24 * time.Hour)
		dismissed, err := s.IsDismissed(ctx, alert.Id, at)
		if err != nil {
			t.Fatalf("IsDismissed failed: %v", err)
		}
		if !dismissed {
			t.Errorf("Expected alert suppressed at T+%d days", day)
		}
	}

	at := dismissedAt.Add(7 * 24 * time.Hour)
	dismissed, err := s.IsDismissed(ctx, alert.Id, at)
	if err != nil {
		t.Fatalf("IsDismissed failed: %v", err)
	}
	if dismissed {
		t.Error("Expected alert eligible again at T+7 days")
	}
}

func TestIsDismissedWithinCustomCooldown(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	dismissedAt := mustTime(t, "2026-03-01T10:00:00Z")
	if err := s.Dismiss(ctx, "rec_expensive_product:milk", dismissedAt); err != nil {
		t.Fatalf("Dismiss failed: %v", err)
	}

	at := dismissedAt.Add(10 * 24 * time.Hour)
	dismissed, err := s.IsDismissedWithin(ctx, "rec_expensive_product:milk", at, RecommendationDismissCooldown)
	if err != nil {
		t.Fatalf("IsDismissedWithin failed: %v", err)
	}
	if !dismissed {
		t.Error("Expected 14-day cooldown to still suppress at T+10 days")
	}
}

func TestHasTriggeredToday(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alert := testAlert()

	now := mustTime(t, "2026-03-01T22:00:00Z")
	if err := s.Upsert(ctx, alert, now); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	sameDay, err := s.HasTriggeredToday(ctx, alert.Id, mustTime(t, "2026-03-01T23:59:00Z"))
	if err != nil {
		t.Fatalf("HasTriggeredToday failed: %v", err)
	}
	if !sameDay {
		t.Error("Expected trigger on the same calendar day to be reported")
	}

	nextDay, err := s.HasTriggeredToday(ctx, alert.Id, mustTime(t, "2026-03-02T00:01:00Z"))
	if err != nil {
		t.Fatalf("HasTriggeredToday failed: %v", err)
	}
	if nextDay {
		t.Error("Expected no same-day trigger just past midnight")
	}
}

func TestHasTriggeredWithin(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alert := testAlert()

	triggeredAt := mustTime(t, "2026-03-01T10:00:00Z")
	if err := s.Upsert(ctx, alert, triggeredAt); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	within, err := s.HasTriggeredWithin(ctx, alert.Id, triggeredAt.Add(2*24*time.Hour), 3)
	if err != nil {
		t.Fatalf("HasTriggeredWithin failed: %v", err)
	}
	if !within {
		t.Error("Expected trigger within 3 days to be reported")
	}

	outside, err := s.HasTriggeredWithin(ctx, alert.Id, triggeredAt.Add(4*24*time.Hour), 3)
	if err != nil {
		t.Fatalf("HasTriggeredWithin failed: %v", err)
	}
	if outside {
		t.Error("Expected trigger older than 3 days to not be reported")
	}
}

func TestPruneDropsAgedEntries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alert := testAlert()

	origin := mustTime(t, "2026-01-01T10:00:00Z")
	if err := s.Upsert(ctx, alert, origin); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Dismiss(ctx, "mental_stale_mood_records", origin); err != nil {
		t.Fatalf("Dismiss failed: %v", err)
	}

	// 10 days in, nothing is old enough to prune.
	if err := s.Prune(ctx, origin.Add(10*24*time.Hour)); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	active, err := s.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("Expected alert to survive early pruning, got %d active", len(active))
	}
	dismissed, err := s.IsDismissedWithin(ctx, "mental_stale_mood_records", origin.Add(6*24*time.Hour), DismissCooldown)
	if err != nil {
		t.Fatalf("IsDismissedWithin failed: %v", err)
	}
	if !dismissed {
		t.Error("Expected dismissal younger than twice its cooldown to survive pruning")
	}

	// 31 days in, the alert is past AlertMaxAge and the dismissal is past
	// twice its 7-day cooldown.
	if err := s.Prune(ctx, origin.Add(31*24*time.Hour)); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	active, err = s.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected aged alert pruned, still have %d", len(active))
	}
	gone, err := s.IsDismissedWithin(ctx, "mental_stale_mood_records", origin.Add(6*24*time.Hour), DismissCooldown)
	if err != nil {
		t.Fatalf("IsDismissedWithin failed: %v", err)
	}
	if gone {
		t.Error("Expected dismissal older than twice its cooldown to be pruned")
	}
}
