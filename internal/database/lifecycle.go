package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pillar-alerts-go/internal/models"
	"pillar-alerts-go/internal/store"
)

func (s *Service) Upsert(ctx context.Context, alert models.Alert, now time.Time) error {
	var existingFirst string
	err := s.db.QueryRowContext(ctx, queryGetStoredAlert, alert.Id).
		Scan(new(string), new(string), new(string), new(string), &existingFirst, new(string))
	first := formatTimestamp(now)
	if err == nil {
		first = existingFirst
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read existing alert: %w", err)
	}

	_, err = s.db.ExecContext(ctx, queryUpsertAlert,
		alert.Id, string(alert.Pillar), string(alert.Rule), string(alert.Severity),
		first, formatTimestamp(now))
	if err != nil {
		return fmt.Errorf("failed to upsert alert: %w", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, queryRemoveAlert, id); err != nil {
		return fmt.Errorf("failed to remove alert: %w", err)
	}
	return nil
}

func (s *Service) Dismiss(ctx context.Context, id string, now time.Time) error {
	if _, err := s.db.ExecContext(ctx, queryUpsertDismissal, id, formatTimestamp(now)); err != nil {
		return fmt.Errorf("failed to record dismissal: %w", err)
	}
	return s.Remove(ctx, id)
}

func (s *Service) IsDismissed(ctx context.Context, id string, now time.Time) (bool, error) {
	return s.IsDismissedWithin(ctx, id, now, store.DismissCooldown)
}

func (s *Service) IsDismissedWithin(ctx context.Context, id string, now time.Time, cooldown time.Duration) (bool, error) {
	var dismissedAtStr string
	err := s.db.QueryRowContext(ctx, queryGetDismissal, id).Scan(&dismissedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read dismissal: %w", err)
	}
	dismissedAt, err := parseTimestamp(dismissedAtStr)
	if err != nil {
		return false, err
	}
	return now.Sub(dismissedAt) < cooldown, nil
}

func (s *Service) HasTriggeredToday(ctx context.Context, id string, now time.Time) (bool, error) {
	stored, err := s.getStoredAlert(ctx, id)
	if errors.Is(err, store.ErrAlertNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ly, lm, ld := stored.LastTriggeredAt.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return ly == ny && lm == nm && ld == nd, nil
}

func (s *Service) HasTriggeredWithin(ctx context.Context, id string, now time.Time, days int) (bool, error) {
	stored, err := s.getStoredAlert(ctx, id)
	if errors.Is(err, store.ErrAlertNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return now.Sub(stored.LastTriggeredAt) < time.Duration(days)*24*time.Hour, nil
}

func (s *Service) Active(ctx context.Context) ([]store.StoredAlert, error) {
	rows, err := s.db.QueryContext(ctx, queryGetActiveAlerts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}
	defer rows.Close()

	var alerts []store.StoredAlert
	for rows.Next() {
		stored, err := scanStoredAlert(rows.Scan)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, stored)
	}
	return alerts, rows.Err()
}

func (s *Service) Prune(ctx context.Context, now time.Time) error {
	alertCutoff := formatTimestamp(now.Add(-store.AlertMaxAge))
	if _, err := s.db.ExecContext(ctx, queryPruneAlerts, alertCutoff); err != nil {
		return fmt.Errorf("failed to prune alerts: %w", err)
	}
	dismissalCutoff := formatTimestamp(now.Add(-2 * store.DismissCooldown))
	if _, err := s.db.ExecContext(ctx, queryPruneDismissals, dismissalCutoff); err != nil {
		return fmt.Errorf("failed to prune dismissals: %w", err)
	}
	return nil
}

func (s *Service) getStoredAlert(ctx context.Context, id string) (store.StoredAlert, error) {
	row := s.db.QueryRowContext(ctx, queryGetStoredAlert, id)
	stored, err := scanStoredAlert(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return store.StoredAlert{}, store.ErrAlertNotFound
	}
	return stored, err
}

func scanStoredAlert(scan func(...any) error) (store.StoredAlert, error) {
	var stored store.StoredAlert
	var pillar, rule, severity, first, last string
	if err := scan(&stored.Id, &pillar, &rule, &severity, &first, &last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.StoredAlert{}, err
		}
		return store.StoredAlert{}, fmt.Errorf("failed to scan alert: %w", err)
	}
	stored.Pillar = models.Pillar(pillar)
	stored.Rule = models.RuleType(rule)
	stored.Severity = models.Severity(severity)

	var err error
	if stored.FirstDetectedAt, err = parseTimestamp(first); err != nil {
		return store.StoredAlert{}, err
	}
	if stored.LastTriggeredAt, err = parseTimestamp(last); err != nil {
		return store.StoredAlert{}, err
	}
	return stored, nil
}
