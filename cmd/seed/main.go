package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"pillar-alerts-go/internal/common"
	"pillar-alerts-go/internal/config"
	"pillar-alerts-go/internal/database"
	"pillar-alerts-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedStats struct {
	transactions    int
	subscriptions   int
	mentalRecords   int
	physicalRecords int
	pricePoints     int
	failures        int
}

// Rotating demo values. The amounts vary by weekday so the evaluators have a
// believable baseline, with a deliberate spike on the most recent day.
var seedCategories = []string{"Food", "Transport", "Leisure", "Household"}

var seedActivities = []models.ActivityType{
	models.ActivityWalk,
	models.ActivityRun,
	models.ActivityGym,
}

func seedTransactions(ctx context.Context, dbService *database.Service, days int, now time.Time, stats *seedStats) {
	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		amount := decimal.NewFromInt(int64(18 + (i*7)%25))
		if i == 0 {
			// Today's spike gives the daily anomaly rule something to find.
			amount = amount.Mul(decimal.NewFromInt(4))
		}
		tx := models.Transaction{
			Id:          uuid.New().String(),
			Kind:        models.KindExpense,
			Amount:      amount,
			Wallet:      "main",
			Description: fmt.Sprintf("Seed purchase %d", i),
			Category:    seedCategories[i%len(seedCategories)],
			Date:        date,
		}
		if err := dbService.InsertTransaction(ctx, tx); err != nil {
			zap.L().Error("Failed to insert transaction", zap.String("id", tx.Id), zap.Error(err))
			stats.failures++
			continue
		}
		stats.transactions++
	}

	// A little income so the ledger is not expense-only.
	income := models.Transaction{
		Id:       uuid.New().String(),
		Kind:     models.KindIncome,
		Amount:   decimal.NewFromInt(2400),
		Wallet:   "main",
		Category: "Salary",
		Date:     now.AddDate(0, 0, -min(days, 14)),
	}
	if err := dbService.InsertTransaction(ctx, income); err != nil {
		zap.L().Error("Failed to insert income", zap.Error(err))
		stats.failures++
	} else {
		stats.transactions++
	}
}

func seedSubscriptions(ctx context.Context, dbService *database.Service, now time.Time, stats *seedStats) {
	subs := []models.Subscription{
		{Id: uuid.New().String(), Name: "Streaming", Amount: decimal.RequireFromString("14.99"), CadenceMonths: 1, NextChargeAt: now.AddDate(0, 0, 12), Active: true},
		{Id: uuid.New().String(), Name: "Gym membership", Amount: decimal.RequireFromString("39.00"), CadenceMonths: 1, NextChargeAt: now.AddDate(0, 0, 20), Active: true},
		{Id: uuid.New().String(), Name: "Domain renewal", Amount: decimal.RequireFromString("36.00"), CadenceMonths: 12, NextChargeAt: now.AddDate(0, 5, 0), Active: true},
		{Id: uuid.New().String(), Name: "Old magazine", Amount: decimal.RequireFromString("9.99"), CadenceMonths: 1, Active: false},
	}
	for _, sub := range subs {
		if err := dbService.InsertSubscription(ctx, sub); err != nil {
			zap.L().Error("Failed to insert subscription", zap.String("name", sub.Name), zap.Error(err))
			stats.failures++
			continue
		}
		stats.subscriptions++
	}
}

func seedMentalRecords(ctx context.Context, dbService *database.Service, days int, now time.Time, stats *seedStats) {
	levels := []int{4, 3, 4, 5, 3, 2, 4}
	for i := 0; i <= days; i += 2 {
		rec := models.MentalRecord{
			Id:        uuid.New().String(),
			Date:      now.AddDate(0, 0, -i),
			MoodLevel: levels[(i/2)%len(levels)],
			Tags:      []string{"seed"},
		}
		if err := dbService.InsertMentalRecord(ctx, rec); err != nil {
			zap.L().Error("Failed to insert mental record", zap.String("id", rec.Id), zap.Error(err))
			stats.failures++
			continue
		}
		stats.mentalRecords++
	}
}

func seedPhysicalRecords(ctx context.Context, dbService *database.Service, days int, now time.Time, stats *seedStats) {
	for i := 0; i <= days; i += 3 {
		rec := models.PhysicalRecord{
			Id:           uuid.New().String(),
			Date:         now.AddDate(0, 0, -i),
			ActivityType: seedActivities[(i/3)%len(seedActivities)],
			DurationMin:  25 + (i*5)%35,
		}
		if err := dbService.InsertPhysicalRecord(ctx, rec); err != nil {
			zap.L().Error("Failed to insert physical record", zap.String("id", rec.Id), zap.Error(err))
			stats.failures++
			continue
		}
		stats.physicalRecords++
	}
}

func seedPricePoints(ctx context.Context, dbService *database.Service, now time.Time, stats *seedStats) {
	points := []models.PricePoint{
		{Product: "oat milk", Amount: decimal.RequireFromString("2.95"), RecordedAt: now.AddDate(0, 0, -45)},
		{Product: "oat milk", Amount: decimal.RequireFromString("3.10"), RecordedAt: now.AddDate(0, 0, -20)},
		{Product: "oat milk", Amount: decimal.RequireFromString("3.25"), RecordedAt: now.AddDate(0, 0, -5)},
		{Product: "coffee beans", Amount: decimal.RequireFromString("11.50"), RecordedAt: now.AddDate(0, 0, -30)},
		{Product: "coffee beans", Amount: decimal.RequireFromString("12.80"), RecordedAt: now.AddDate(0, 0, -10)},
	}
	for _, point := range points {
		if err := dbService.InsertPricePoint(ctx, point); err != nil {
			zap.L().Error("Failed to insert price point", zap.String("product", point.Product), zap.Error(err))
			stats.failures++
			continue
		}
		stats.pricePoints++
	}
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	daysFlag := flag.Int("days", 45, "Number of trailing days to seed")
	flag.Parse()

	if *daysFlag < 1 {
		zap.L().Fatal("Invalid --days value", zap.Int("days", *daysFlag))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	now := time.Now().UTC()
	stats := &seedStats{}

	zap.L().Info("Seeding demo records", zap.Int("days", *daysFlag))
	seedTransactions(ctx, dbService, *daysFlag, now, stats)
	seedSubscriptions(ctx, dbService, now, stats)
	seedMentalRecords(ctx, dbService, *daysFlag, now, stats)
	seedPhysicalRecords(ctx, dbService, *daysFlag, now, stats)
	seedPricePoints(ctx, dbService, now, stats)

	if stats.failures > 0 {
		zap.L().Warn("Seeding completed with failures",
			zap.Int("transactions", stats.transactions),
			zap.Int("subscriptions", stats.subscriptions),
			zap.Int("mental_records", stats.mentalRecords),
			zap.Int("physical_records", stats.physicalRecords),
			zap.Int("price_points", stats.pricePoints),
			zap.Int("failures", stats.failures))
		return
	}
	zap.L().Info("Seeding completed",
		zap.Int("transactions", stats.transactions),
		zap.Int("subscriptions", stats.subscriptions),
		zap.Int("mental_records", stats.mentalRecords),
		zap.Int("physical_records", stats.physicalRecords),
		zap.Int("price_points", stats.pricePoints))
}
