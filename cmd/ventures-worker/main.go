package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ventures/internal/autopilot"
	"ventures/internal/config"
	"ventures/internal/game"
	"ventures/internal/notify"
	"ventures/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWorkerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("store open failed", "err", err, "driver", cfg.Store.Driver)
		os.Exit(1)
	}
	defer st.Close()

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.DiscordBotToken != "" {
		dn, err := notify.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordChannelID)
		if err != nil {
			logger.Error("discord init failed", "err", err)
			os.Exit(1)
		}
		notifier = dn
		logger.Info("forwarding events to discord", "channel_id", cfg.DiscordChannelID)
	}

	svc := game.NewService(st, game.Engine{ResolvePrerequisites: cfg.ResolvePrerequisites}, logger)
	pilot := autopilot.New(svc, notifier, logger)

	if cfg.RunOnce {
		if _, err := pilot.Tick(ctx); err != nil {
			logger.Error("tick failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed")
		return
	}

	if err := pilot.Start(ctx, cfg.Schedule); err != nil {
		logger.Error("autopilot start failed", "err", err)
		os.Exit(1)
	}
	defer pilot.Stop()

	select {
	case <-ctx.Done():
		logger.Info("worker shutdown")
	case <-pilot.Done():
		logger.Info("worker exiting, venture is bankrupt")
	}
}
