package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"car-advisor/cmd/insights/handler"
	"car-advisor/internal/logger"
	"car-advisor/config"
	"car-advisor/eventbus"
)

const summaryInterval = time.Minute

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.InitFromEnv("LOG_LEVEL", cfg.Logging.Level)

	if cfg.Events.Brokers == "" {
		logger.Log.Error("KAFKA_BOOTSTRAP_SERVERS is not set, insights worker has nothing to consume")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tctx, tcancel := context.WithTimeout(ctx, 10*time.Second)
	if err := eventbus.EnsureTopic(tctx, cfg.Events.Brokers, cfg.Events.Topic, 3); err != nil {
		logger.WarnWithFields("failed to ensure event topic", logger.Fields{"topic": cfg.Events.Topic, "error": err.Error()})
	}
	tcancel()

	bus, err := eventbus.NewKafkaEventBus(cfg.Events.Brokers)
	if err != nil {
		logger.ErrorWithFields("failed to create event bus", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer bus.Close()

	tally := handler.NewTally()
	eventHandler := handler.NewEventHandlers(tally)

	logger.InfoWithFields("starting insights worker", logger.Fields{"topic": cfg.Events.Topic, "group_id": cfg.Events.GroupID})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := bus.Subscribe(ctx, cfg.Events.GroupID, cfg.Events.Topic, eventHandler.Dispatch); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorWithFields("eventbus subscribe error", logger.Fields{"error": err.Error()})
			cancel()
		}
	}()

	// 주기적으로 누적 지표를 로그로 남긴다
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(summaryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logSummary(tally.Summary())
			}
		}
	}()

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	logger.Log.Info("received shutdown signal, shutting down insights worker...")

	cancel()
	wg.Wait()

	logSummary(tally.Summary())
	logger.Log.Info("insights worker stopped")
}

func logSummary(s handler.Summary) {
	logger.InfoWithFields("insights summary", logger.Fields{
		"recommendations_served": s.RecommendationsServed,
		"empty_results":          s.EmptyResults,
		"fallbacks_by_kind":      s.FallbacksByKind,
		"average_top_score":      s.AverageTopScore,
		"top_vehicles":           s.TopVehicles,
		"chats_opened":           s.ChatsOpened,
		"chats_by_vehicle":       s.ChatsByVehicle,
		"replies_by_tier":        s.RepliesByTier,
		"degraded_replies":       s.DegradedReplies,
		"garage_analyses":        s.GarageAnalyses,
		"garage_failures":        s.GarageFailures,
		"severity_levels":        s.SeverityLevels,
	})
}
