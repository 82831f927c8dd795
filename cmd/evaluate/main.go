package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"pillar-alerts-go/internal/common"
	"pillar-alerts-go/internal/config"
	"pillar-alerts-go/internal/database"
	"pillar-alerts-go/internal/engine"
	"pillar-alerts-go/internal/models"

	"go.uber.org/zap"
)

func loadInput(ctx context.Context, dbService *database.Service) (engine.Input, error) {
	transactions, err := dbService.GetTransactions(ctx)
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	subscriptions, err := dbService.GetSubscriptions(ctx)
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	prices, err := dbService.GetPriceHistory(ctx)
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to load price history: %w", err)
	}
	mentalRecords, err := dbService.GetMentalRecords(ctx)
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to load mental records: %w", err)
	}
	physicalRecords, err := dbService.GetPhysicalRecords(ctx)
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to load physical records: %w", err)
	}

	return engine.Input{
		Transactions:    transactions,
		Subscriptions:   subscriptions,
		Prices:          prices,
		MentalRecords:   mentalRecords,
		PhysicalRecords: physicalRecords,
	}, nil
}

func printAlert(alert models.Alert, isLast bool) {
	fmt.Printf("%s[%d][%s] %s\n", common.BoxPrefix(isLast), alert.Priority, alert.Severity, alert.Text)
	fmt.Printf("%s     id: %s, action: %s -> %s\n",
		common.BoxDetailPrefix(isLast), alert.Id, alert.CTA.Kind, alert.CTA.Target)
}

func printAlerts(alerts []models.Alert) {
	fmt.Printf("\n┌─ Alerts: %d\n", len(alerts))
	common.PrintBoxSeparator(78)
	if len(alerts) == 0 {
		fmt.Println("└  Nothing needs your attention.")
		return
	}
	for i, alert := range alerts {
		printAlert(alert, i == len(alerts)-1)
	}
}

func printInsights(pillar models.Pillar, insights []models.Insight) {
	if len(insights) == 0 {
		return
	}
	fmt.Printf("\n┌─ %s observations\n", pillar)
	common.PrintBoxSeparator(78)
	for i, insight := range insights {
		fmt.Printf("%s%s\n", common.BoxPrefix(i == len(insights)-1), insight.Text)
	}
}

func printSnapshots(snapshots engine.Snapshots) {
	fmt.Printf("\n┌─ Snapshots\n")
	common.PrintBoxSeparator(78)
	fmt.Printf("│  economic: %s spent over 30 days (%d records), %s/day, month projection %s\n",
		snapshots.Economic.Spend30Days,
		snapshots.Economic.ExpenseCount30Days,
		snapshots.Economic.DailyAverage,
		snapshots.Economic.MonthProjection)
	fmt.Printf("│  mental:   %d/14 days tracked, 30-day mood %.1f, trend %s\n",
		snapshots.Mental.DaysTracked14,
		snapshots.Mental.AverageMood30,
		snapshots.Mental.Trend)
	fmt.Printf("└  physical: %d/14 active days, streak %d, last activity %d days ago\n",
		snapshots.Physical.ActiveDays14,
		snapshots.Physical.CurrentStreak,
		snapshots.Physical.DaysSinceLast)
}

func printReport(out engine.Output) {
	common.PrintHeader("PILLAR ALERT REPORT", common.DefaultWidth)

	printAlerts(out.Alerts)
	for _, pillar := range []models.Pillar{models.PillarEconomic, models.PillarMental, models.PillarPhysical} {
		printInsights(pillar, out.Insights[pillar])
	}
	printSnapshots(out.Snapshots)

	summary := fmt.Sprintf("SUMMARY: %d alerts in the feed", len(out.Alerts))
	common.PrintFooter(summary, common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	jsonFlag := flag.Bool("json", false, "Emit the full engine output as JSON instead of a report")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	in, err := loadInput(ctx, services.DbService)
	if err != nil {
		logger.Fatal("Failed to load records", zap.Error(err))
	}

	now := time.Now().UTC()
	out := services.Engine.Run(ctx, in, now)

	if *jsonFlag {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			logger.Fatal("Failed to encode output", zap.Error(err))
		}
		return
	}

	printReport(out)

	logger.Info("Evaluation completed",
		zap.Int("alerts", len(out.Alerts)),
		zap.Int("economic_insights", len(out.Insights[models.PillarEconomic])),
		zap.Int("mental_insights", len(out.Insights[models.PillarMental])),
		zap.Int("physical_insights", len(out.Insights[models.PillarPhysical])))
}
