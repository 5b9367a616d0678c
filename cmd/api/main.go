package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"car-advisor/chat"
	"car-advisor/cmd/api/clients/carinfoclient"
	"car-advisor/cmd/api/clients/garageclient"
	"car-advisor/cmd/api/clients/recommendclient"
	"car-advisor/cmd/api/httpclient"
	"car-advisor/cmd/api/router"
	"car-advisor/cmd/api/services"
	"car-advisor/internal/logger"
	"car-advisor/config"
	"car-advisor/db"
	"car-advisor/eventbus"
	"car-advisor/events"
	"car-advisor/recommend"
	"car-advisor/repositories"
)

// @title           Car Advisor API
// @version         1.0
// @description     Vehicle preference wizard, recommendations, vehicle chat and accident analysis
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.InitFromEnv("LOG_LEVEL", cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openSnapshotStore(ctx, cfg.Storage)
	if err != nil {
		logger.ErrorWithFields("failed to open snapshot store", logger.Fields{"backend": cfg.Storage.Backend, "error": err.Error()})
		os.Exit(1)
	}
	defer closeStore()

	bus := openEventBus(ctx, cfg.Events)
	defer bus.Close()
	publisher := events.NewPublisher(bus, cfg.Events.Topic)

	clientCfg := httpclient.Config{
		Timeout:           cfg.Gateway.Timeout(),
		RequestsPerSecond: cfg.Gateway.RequestsPerSecond,
		Burst:             cfg.Gateway.Burst,
	}
	gateway := recommend.NewGateway(
		recommendclient.New(cfg.Gateway.BaseURL, clientCfg),
		recommend.WithTimeout(cfg.Gateway.Timeout()),
		recommend.WithStore(store),
	)

	responder := buildResponder(ctx, cfg, carinfoclient.New(cfg.Gateway.BaseURL, clientCfg))
	sessions := services.NewSessionRegistry(func() *chat.Simulator {
		return chat.NewSimulator(responder,
			chat.WithTypingDelay(cfg.Chat.TypingDelay()),
			chat.WithReplyTimeout(cfg.Chat.ReplyTimeout()),
		)
	}, cfg.Storage.TTL())

	engine := router.New(router.Services{
		Wizard:          services.NewWizardService(sessions, gateway, publisher),
		Recommendations: services.NewRecommendationService(sessions, gateway),
		Chat:            services.NewChatService(sessions, publisher),
		Garage:          services.NewGarageService(garageclient.New(cfg.Gateway.BaseURL, clientCfg), publisher),
	}, router.Options{
		SecureCookies: cfg.HTTP.SecureCookies,
		SlowRequest:   cfg.Gateway.Timeout() / 2,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Span-Id", "X-Session-Id"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           c.Handler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("api server listening", logger.Fields{"addr": cfg.HTTP.Addr, "storage": cfg.Storage.Backend, "events": cfg.Events.Enabled})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithFields("api server stopped", logger.Fields{"error": err.Error()})
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	logger.Log.Info("received shutdown signal, shutting down api server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WarnWithFields("graceful shutdown failed", logger.Fields{"error": err.Error()})
	}
	publisher.Wait()
}

// openSnapshotStore 는 설정된 백엔드로 추천 스냅샷 저장소를 연다.
func openSnapshotStore(ctx context.Context, sc config.StorageConfig) (recommend.ResultStore, func(), error) {
	switch sc.Backend {
	case "mongo":
		d, err := db.ConnectMongo(ctx, sc.MongoURI, sc.MongoDB, sc.TTL())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer dcancel()
			_ = d.Client().Disconnect(dctx)
		}
		return repositories.NewMongoSnapshotRepository(d), closeFn, nil
	case "redis":
		rdb, err := db.ConnectRedis(ctx, sc.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisSnapshotRepository(rdb, sc.TTL()), func() { _ = rdb.Close() }, nil
	}
	return repositories.NewMemorySnapshotRepository(sc.TTL()), func() {}, nil
}

// openEventBus 는 Kafka 가 설정되지 않았거나 연결에 실패하면 Noop 버스를 반환한다.
func openEventBus(ctx context.Context, ec config.EventsConfig) eventbus.EventBus {
	if !ec.Enabled || ec.Brokers == "" {
		return eventbus.NoopEventBus{}
	}
	tctx, tcancel := context.WithTimeout(ctx, 10*time.Second)
	defer tcancel()
	if err := eventbus.EnsureTopic(tctx, ec.Brokers, ec.Topic, 3); err != nil {
		logger.WarnWithFields("failed to ensure event topic", logger.Fields{"topic": ec.Topic, "error": err.Error()})
	}
	bus, err := eventbus.NewKafkaEventBus(ec.Brokers)
	if err != nil {
		logger.WarnWithFields("kafka unavailable, events disabled", logger.Fields{"brokers": ec.Brokers, "error": err.Error()})
		return eventbus.NoopEventBus{}
	}
	return bus
}

// buildResponder 는 원격 전문가, (API 키가 있으면) Gemini, 키워드 순으로 응답 티어를 구성한다.
func buildResponder(ctx context.Context, cfg config.AppConfig, fetcher chat.CarInfoFetcher) chat.Responder {
	chain := chat.Chain{chat.RemoteResponder{Fetcher: fetcher}}
	if cfg.Gemini.APIKey != "" {
		llm, err := chat.NewLLMResponder(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.WarnWithFields("gemini responder disabled", logger.Fields{"error": err.Error()})
		} else {
			chain = append(chain, llm)
		}
	}
	return append(chain, chat.KeywordResponder{})
}
