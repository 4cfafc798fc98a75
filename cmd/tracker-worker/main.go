package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/amqp"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/config"
	applog "github.com/AsheemRahman/Expense-Tracker-Analytics/internal/log"
)

// tracker-worker consumes expense lifecycle events and writes them to the
// audit log. It is the consuming side of the events trackerd publishes.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentAMQP)
	applog.SetDefault(logger)

	logger.Info("Starting tracker-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the event worker")
		os.Exit(1)
	}

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", applog.FieldError, err)
		os.Exit(1)
	}
	defer events.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = events.ConsumeExpenseEvents(ctx, func(event *amqp.ExpenseEvent) error {
		logger.Info("Expense event",
			"action", event.Action,
			applog.FieldExpenseID, event.ID,
			applog.FieldUserID, event.UserID,
			"occurred_at", event.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption stopped", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}
