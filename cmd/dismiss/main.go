package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"pillar-alerts-go/internal/common"
	"pillar-alerts-go/internal/config"
	"pillar-alerts-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	idFlag := flag.String("id", "", "Alert id to dismiss (required)")
	listFlag := flag.Bool("list", false, "List active alerts instead of dismissing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if *listFlag {
		listActive(ctx, services)
		return
	}

	if *idFlag == "" {
		logger.Fatal("Missing required flag: -id (use -list to see active alerts)")
	}

	now := time.Now().UTC()
	if err := services.Engine.Dismiss(ctx, *idFlag, now); err != nil {
		logger.Fatal("Failed to dismiss alert", zap.String("alert_id", *idFlag), zap.Error(err))
	}

	logger.Info("Alert dismissed",
		zap.String("alert_id", *idFlag),
		zap.Duration("cooldown", store.DismissCooldown))
}

func listActive(ctx context.Context, services *common.Services) {
	active, err := services.DbService.Active(ctx)
	if err != nil {
		zap.L().Fatal("Failed to list active alerts", zap.Error(err))
	}

	common.PrintHeader("ACTIVE ALERTS", common.DefaultWidth)
	if len(active) == 0 {
		fmt.Println("No active alerts.")
	}
	for i, alert := range active {
		fmt.Printf("%s%-40s [%s] first seen %s, last triggered %s\n",
			common.BoxPrefix(i == len(active)-1),
			alert.Id,
			alert.Severity,
			alert.FirstDetectedAt.Format("2006-01-02"),
			alert.LastTriggeredAt.Format("2006-01-02"))
	}
	common.PrintFooter(fmt.Sprintf("SUMMARY: %d active alerts", len(active)), common.DefaultWidth)
}
