package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/wayfare/pkg/app"
	"github.com/ghuser/wayfare/pkg/cache"
	"github.com/ghuser/wayfare/pkg/config"
	"github.com/ghuser/wayfare/pkg/database"
	"github.com/ghuser/wayfare/pkg/events"
	"github.com/ghuser/wayfare/pkg/logger"
	"github.com/ghuser/wayfare/pkg/telemetry"
	bookingEvents "github.com/ghuser/wayfare/services/booking/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	topics := map[string]func(context.Context, *message.Message) error{
		bookingEvents.TopicBookingConfirmed: handleBookingConfirmed(a),
		bookingEvents.TopicBookingCancelled: handleBookingCancelled(a),
	}

	for topic, handler := range topics {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error",
					"topic", topic,
					"error", err,
				)
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered",
		"topics", []string{bookingEvents.TopicBookingConfirmed, bookingEvents.TopicBookingCancelled})
	return nil
}

// handleBookingConfirmed returns a handler for booking.confirmed events.
// Handlers must be idempotent — EventBus retries up to 3× on failure.
// Drops the stale catalog cache entry so reads see the new availability,
// and records the confirmation for downstream notification delivery.
func handleBookingConfirmed(a *app.Application) func(context.Context, *message.Message) error {
	catalogCache := cache.NewCatalogCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt bookingEvents.BookingConfirmedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := catalogCache.Delete(ctx, evt.ItemID); err != nil {
			// Invalidation is best-effort; the entry expires on its own TTL.
			a.Logger.WarnContext(ctx, "cache invalidation failed for booking.confirmed",
				"item_id", evt.ItemID, "error", err)
		}

		a.Logger.InfoContext(ctx, "booking confirmation processed",
			"booking_id", evt.BookingID,
			"item", evt.ItemName,
			"quantity", evt.Quantity,
			"total_cents", evt.TotalCents,
		)
		return nil
	}
}

// handleBookingCancelled returns a handler for booking.cancelled events.
// Drops both the catalog cache entry and the availability counter so the
// next commit reseeds from the database's restored value.
func handleBookingCancelled(a *app.Application) func(context.Context, *message.Message) error {
	catalogCache := cache.NewCatalogCache(a.Redis)
	availCache := cache.NewAvailabilityCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt bookingEvents.BookingCancelledEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := catalogCache.Delete(ctx, evt.ItemID); err != nil {
			a.Logger.WarnContext(ctx, "cache invalidation failed for booking.cancelled",
				"item_id", evt.ItemID, "error", err)
		}
		if err := availCache.Invalidate(ctx, evt.ItemID); err != nil {
			a.Logger.WarnContext(ctx, "availability counter invalidation failed",
				"item_id", evt.ItemID, "error", err)
		}

		a.Logger.InfoContext(ctx, "booking cancellation processed",
			"booking_id", evt.BookingID,
			"item_id", evt.ItemID,
		)
		return nil
	}
}
