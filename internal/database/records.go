package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pillar-alerts-go/internal/models"

	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// Timestamps are stored as UTC RFC3339 strings so that lexicographic
// comparison in SQL matches chronological order.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}

func formatDay(t time.Time) string {
	return t.Format(dayLayout)
}

func parseDay(value string) (time.Time, error) {
	parsed, err := time.Parse(dayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", value, err)
	}
	return parsed, nil
}

func (s *Service) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", tx.Amount)
	}
	_, err := s.db.ExecContext(ctx, queryInsertTransaction,
		tx.Id, string(tx.Kind), tx.Amount.String(), tx.Wallet, tx.SourceWallet, tx.DestWallet,
		tx.Description, tx.Category, formatDay(tx.Date))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (s *Service) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var kind, amountStr, dateStr string
		if err := rows.Scan(&tx.Id, &kind, &amountStr, &tx.Wallet, &tx.SourceWallet,
			&tx.DestWallet, &tx.Description, &tx.Category, &dateStr); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Kind = models.TransactionKind(kind)
		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse transaction amount: %w", err)
		}
		if tx.Date, err = parseDay(dateStr); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (s *Service) InsertSubscription(ctx context.Context, sub models.Subscription) error {
	if sub.CadenceMonths < 1 {
		return fmt.Errorf("subscription cadence must be at least 1 month, got %d", sub.CadenceMonths)
	}
	nextCharge := ""
	if !sub.NextChargeAt.IsZero() {
		nextCharge = formatDay(sub.NextChargeAt)
	}
	_, err := s.db.ExecContext(ctx, queryInsertSubscription,
		sub.Id, sub.Name, sub.Amount.String(), sub.CadenceMonths, nextCharge, sub.Active)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

func (s *Service) GetSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, queryGetSubscriptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var amountStr, nextCharge string
		if err := rows.Scan(&sub.Id, &sub.Name, &amountStr, &sub.CadenceMonths, &nextCharge, &sub.Active); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		if sub.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse subscription amount: %w", err)
		}
		if nextCharge != "" {
			if sub.NextChargeAt, err = parseDay(nextCharge); err != nil {
				return nil, err
			}
		}
		subscriptions = append(subscriptions, sub)
	}
	return subscriptions, rows.Err()
}

func (s *Service) InsertMentalRecord(ctx context.Context, rec models.MentalRecord) error {
	if rec.MoodLevel < 1 || rec.MoodLevel > 5 {
		return fmt.Errorf("mood level must be between 1 and 5, got %d", rec.MoodLevel)
	}
	_, err := s.db.ExecContext(ctx, queryInsertMentalRecord,
		rec.Id, formatDay(rec.Date), rec.MoodLevel, strings.Join(rec.Tags, ","))
	if err != nil {
		return fmt.Errorf("failed to insert mental record: %w", err)
	}
	return nil
}

func (s *Service) GetMentalRecords(ctx context.Context) ([]models.MentalRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryGetMentalRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to query mental records: %w", err)
	}
	defer rows.Close()

	var records []models.MentalRecord
	for rows.Next() {
		var rec models.MentalRecord
		var dateStr, tags string
		if err := rows.Scan(&rec.Id, &dateStr, &rec.MoodLevel, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan mental record: %w", err)
		}
		if rec.Date, err = parseDay(dateStr); err != nil {
			return nil, err
		}
		if tags != "" {
			rec.Tags = strings.Split(tags, ",")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Service) InsertPhysicalRecord(ctx context.Context, rec models.PhysicalRecord) error {
	_, err := s.db.ExecContext(ctx, queryInsertPhysicalRecord,
		rec.Id, formatDay(rec.Date), string(rec.ActivityType), rec.DurationMin)
	if err != nil {
		return fmt.Errorf("failed to insert physical record: %w", err)
	}
	return nil
}

func (s *Service) GetPhysicalRecords(ctx context.Context) ([]models.PhysicalRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryGetPhysicalRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to query physical records: %w", err)
	}
	defer rows.Close()

	var records []models.PhysicalRecord
	for rows.Next() {
		var rec models.PhysicalRecord
		var dateStr, activity string
		if err := rows.Scan(&rec.Id, &dateStr, &activity, &rec.DurationMin); err != nil {
			return nil, fmt.Errorf("failed to scan physical record: %w", err)
		}
		if rec.Date, err = parseDay(dateStr); err != nil {
			return nil, err
		}
		rec.ActivityType = models.ActivityType(activity)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Service) InsertPricePoint(ctx context.Context, point models.PricePoint) error {
	_, err := s.db.ExecContext(ctx, queryInsertPricePoint,
		point.Product, point.Amount.String(), formatTimestamp(point.RecordedAt))
	if err != nil {
		return fmt.Errorf("failed to insert price point: %w", err)
	}
	return nil
}

func (s *Service) GetPriceHistory(ctx context.Context) (models.PriceHistory, error) {
	rows, err := s.db.QueryContext(ctx, queryGetPricePoints)
	if err != nil {
		return nil, fmt.Errorf("failed to query price points: %w", err)
	}
	defer rows.Close()

	history := models.PriceHistory{}
	for rows.Next() {
		var point models.PricePoint
		var amountStr, recordedAt string
		if err := rows.Scan(&point.Product, &amountStr, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		if point.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse price point amount: %w", err)
		}
		if point.RecordedAt, err = parseTimestamp(recordedAt); err != nil {
			return nil, err
		}
		history[point.Product] = append(history[point.Product], point)
	}
	return history, rows.Err()
}
