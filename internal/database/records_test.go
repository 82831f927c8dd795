package database

import (
	"context"
	"testing"

	"pillar-alerts-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestTransactionRoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	tx := models.Transaction{
		Id:          "tx1",
		Kind:        models.KindExpense,
		Amount:      decimal.RequireFromString("42.50"),
		Wallet:      "cash",
		Description: "groceries at the corner store",
		Category:    "Food",
		Date:        mustTime(t, "2026-03-01T00:00:00Z"),
	}
	if err := service.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("InsertTransaction failed: %v", err)
	}

	got, err := service.GetTransactions(ctx)
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(got))
	}
	if !got[0].Amount.Equal(tx.Amount) {
		t.Errorf("Expected amount %s, got %s", tx.Amount, got[0].Amount)
	}
	if got[0].Category != "Food" {
		t.Errorf("Expected category Food, got %q", got[0].Category)
	}
	if got[0].Date.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("Expected date 2026-03-01, got %v", got[0].Date)
	}
}

func TestInsertTransactionRejectsNonPositiveAmount(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	tx := models.Transaction{
		Id:     "tx1",
		Kind:   models.KindExpense,
		Amount: decimal.Zero,
		Date:   mustTime(t, "2026-03-01T00:00:00Z"),
	}
	if err := service.InsertTransaction(context.Background(), tx); err == nil {
		t.Fatal("Expected error for zero amount, got nil")
	}
}

func TestSubscriptionRoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	sub := models.Subscription{
		Id:            "sub1",
		Name:          "Streaming",
		Amount:        decimal.RequireFromString("29.97"),
		CadenceMonths: 3,
		Active:        true,
	}
	if err := service.InsertSubscription(ctx, sub); err != nil {
		t.Fatalf("InsertSubscription failed: %v", err)
	}

	got, err := service.GetSubscriptions(ctx)
	if err != nil {
		t.Fatalf("GetSubscriptions failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 subscription, got %d", len(got))
	}
	if !got[0].MonthlyCost().Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("Expected monthly cost 9.99, got %s", got[0].MonthlyCost())
	}
}

func TestSubscriptionCadenceValidation(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	sub := models.Subscription{Id: "sub1", Name: "Bad", Amount: decimal.New(10, 0), CadenceMonths: 0}
	if err := service.InsertSubscription(context.Background(), sub); err == nil {
		t.Fatal("Expected error for zero cadence, got nil")
	}
}

func TestMentalAndPhysicalRecordRoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	mental := models.MentalRecord{
		Id:        "m1",
		Date:      mustTime(t, "2026-03-01T00:00:00Z"),
		MoodLevel: 2,
		Tags:      []string{"tired", "work"},
	}
	if err := service.InsertMentalRecord(ctx, mental); err != nil {
		t.Fatalf("InsertMentalRecord failed: %v", err)
	}

	physical := models.PhysicalRecord{
		Id:           "p1",
		Date:         mustTime(t, "2026-03-01T00:00:00Z"),
		ActivityType: models.ActivityRun,
		DurationMin:  30,
	}
	if err := service.InsertPhysicalRecord(ctx, physical); err != nil {
		t.Fatalf("InsertPhysicalRecord failed: %v", err)
	}

	mentalGot, err := service.GetMentalRecords(ctx)
	if err != nil {
		t.Fatalf("GetMentalRecords failed: %v", err)
	}
	if len(mentalGot) != 1 || mentalGot[0].MoodLevel != 2 {
		t.Errorf("Unexpected mental records: %+v", mentalGot)
	}
	if len(mentalGot[0].Tags) != 2 || mentalGot[0].Tags[0] != "tired" {
		t.Errorf("Expected tags [tired work], got %v", mentalGot[0].Tags)
	}

	physicalGot, err := service.GetPhysicalRecords(ctx)
	if err != nil {
		t.Fatalf("GetPhysicalRecords failed: %v", err)
	}
	if len(physicalGot) != 1 || physicalGot[0].ActivityType != models.ActivityRun {
		t.Errorf("Unexpected physical records: %+v", physicalGot)
	}
}

func TestMentalRecordLevelValidation(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	rec := models.MentalRecord{Id: "m1", Date: mustTime(t, "2026-03-01T00:00:00Z"), MoodLevel: 6}
	if err := service.InsertMentalRecord(context.Background(), rec); err == nil {
		t.Fatal("Expected error for mood level 6, got nil")
	}
}

func TestPriceHistoryGroupsByProduct(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	points := []models.PricePoint{
		{Product: "oat milk", Amount: decimal.RequireFromString("3.10"), RecordedAt: mustTime(t, "2026-01-10T12:00:00Z")},
		{Product: "oat milk", Amount: decimal.RequireFromString("3.30"), RecordedAt: mustTime(t, "2026-02-10T12:00:00Z")},
		{Product: "coffee beans", Amount: decimal.RequireFromString("12.00"), RecordedAt: mustTime(t, "2026-02-11T12:00:00Z")},
	}
	for _, p := range points {
		if err := service.InsertPricePoint(ctx, p); err != nil {
			t.Fatalf("InsertPricePoint failed: %v", err)
		}
	}

	history, err := service.GetPriceHistory(ctx)
	if err != nil {
		t.Fatalf("GetPriceHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(history))
	}
	if len(history["oat milk"]) != 2 {
		t.Errorf("Expected 2 oat milk points, got %d", len(history["oat milk"]))
	}
}
