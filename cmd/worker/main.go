package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/party-rental/internal/config"
	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/queue"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config: load failed", "error", err)
		os.Exit(1)
	}
	if cfg.RabbitURL == "" {
		logger.Error("RABBITMQ_URL is empty, nothing to consume")
		os.Exit(1)
	}
	logDir := os.Getenv("EVENT_LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("rental-consumer: starting", "queue", queue.QueueName, "log_dir", logDir)
	c := &queue.Consumer{URL: cfg.RabbitURL, LogDir: logDir}
	if err := c.Run(ctx); err != nil {
		logger.Error("rental-consumer: stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("rental-consumer: stopped")
}
