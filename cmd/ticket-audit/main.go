// Command ticket-audit consumes ticket.purchased events and appends each one
// to an audit log file.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
)

func main() {
	_ = godotenv.Load()

	logger, err := config.NewLogger(os.Getenv("APP_ENV"), envOr("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.AuditConsumer{
		URL:     config.RabbitURL(),
		LogPath: envOr("AUDIT_LOG_PATH", "logs/tickets.log"),
		Log:     logger,
	}
	logger.Info("ticket audit started", zap.String("queue", queue.TicketQueue), zap.String("file", c.LogPath))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("ticket audit", zap.Error(err))
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
