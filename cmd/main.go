package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/api"
	"github.com/farmwatch/internal/config"
	"github.com/farmwatch/internal/database"
	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/monitor"
	"github.com/farmwatch/internal/notify"
	"github.com/farmwatch/internal/report"
	"github.com/farmwatch/internal/scheduler"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.EnsureDemoFarm(db); err != nil {
		logger.Warn("failed to seed demo data", zap.Error(err))
	}

	store := alert.NewStore(db)
	admitter := alert.NewAdmitter(store, logger)
	lifecycle := alert.NewLifecycle(store, logger)
	data := gateway.NewFarmData(db)

	adapters := []notify.ChannelAdapter{
		notify.NewPushAdapter(cfg.Notify.Push.SlackToken, cfg.Notify.Push.SlackChannel),
		notify.NewEmailAdapter(cfg.Notify.Email.SMTPHost, cfg.Notify.Email.SMTPPort,
			cfg.Notify.Email.From, cfg.Notify.Email.Password),
		notify.NewSMSAdapter(cfg.Notify.SMS.AccountSID, cfg.Notify.SMS.AuthToken,
			cfg.Notify.SMS.FromNumber),
	}
	dispatcher := notify.NewDispatcher(notify.NewUserDirectory(db), store, logger, adapters...)

	orchestrator := monitor.NewOrchestrator(data, admitter, dispatcher, logger)
	sweeper := scheduler.NewExpirySweeper(store, logger)
	recurrence := scheduler.NewRecurrenceScheduler(store, logger)
	runner := scheduler.NewRunner(data, orchestrator, sweeper, recurrence,
		cfg.Monitor.MaxConcurrentFarms, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	intervals := scheduler.Intervals{
		Sweep:      cfg.Monitor.SweepInterval,
		Expiry:     cfg.Monitor.ExpiryInterval,
		Recurrence: cfg.Monitor.RecurrenceInterval,
	}
	if err := runner.Start(ctx, intervals); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer runner.Stop()

	reports, err := report.NewGenerator(store)
	if err != nil {
		logger.Fatal("failed to build report generator", zap.Error(err))
	}

	server := api.NewServer(db, store, lifecycle, orchestrator, reports, []byte(cfg.Server.JWTSecret))
	if err := server.Start(cfg.Server.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
