package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"seriestracker/internal/api"
	"seriestracker/internal/bot"
	"seriestracker/internal/config"
	"seriestracker/internal/models"
	"seriestracker/internal/scheduler"
	"seriestracker/internal/services/telegram"
	"seriestracker/internal/tracker"
	"seriestracker/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting series tracker")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize tracking engine and interpreter
	trackerSvc := tracker.NewService(db, logger)
	interpreter := bot.NewInterpreter(trackerSvc, logger)

	// 5. Initialize Telegram client
	tgClient, err := telegram.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tgClient.SetMyCommands(ctx, []telegram.BotCommand{
		{Command: "/start", Description: "Начало работы с ботом"},
		{Command: "/menu", Description: "Открыть меню"},
		{Command: "/commands", Description: "Показать список команд"},
	}); err != nil {
		logger.WithError(err).Warn("Failed to register bot commands")
	}
	logger.Info("Telegram client initialized")

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(db, cfg.BackupFile, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Start update poller
	poller := telegram.NewPoller(tgClient, interpreter, cfg.PollTimeoutSec, logger)
	pollerErrChan := make(chan error, 1)
	go func() {
		if err := poller.Run(ctx); err != nil {
			pollerErrChan <- err
		}
	}()

	// 8. Start HTTP server
	server := api.NewServer(cfg, db, logger)
	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Series tracker is running")

	select {
	case err := <-pollerErrChan:
		return fmt.Errorf("poller error: %w", err)
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Series tracker stopped")
	return nil
}
