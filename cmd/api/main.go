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

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/analysis"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/metrics"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/middleware"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/router"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/services"
	"github.com/SaisandeepKv/vernon-clinic-sub000/config"
	"github.com/SaisandeepKv/vernon-clinic-sub000/content"
	"github.com/SaisandeepKv/vernon-clinic-sub000/llm"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

// @title           Vernon Clinic Assistant API
// @version         1.0
// @description     Conversational booking/triage assistant, booking and callback forms, and photo analysis.
// @BasePath        /api
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.InitFromEnv("LOG_LEVEL", cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	store := content.NewStore()
	if cfg.Content.VideoFeedURL != "" {
		refreshed, err := store.RefreshVideos(ctx, cfg.Content.VideoFeedURL)
		if err != nil {
			logger.WarnWithFields("video feed refresh failed, using built-in videos", logger.Fields{"error": err.Error()})
		}
		store = refreshed
	}

	sinks, err := openSinks(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("failed to open sinks: %v", err)
	}
	ob := outbox.New(cfg.Records.WriteTimeout, sinks.tasks...)
	ob.OnResult(m.OutboxResult)

	model, err := llm.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("failed to create model client: %v", err)
	}
	registry := tools.NewRegistry(store, ob)
	orch := agent.New(model, registry, store, cfg.Agent)

	var analyzer services.Analyzer
	if vision, err := analysis.NewAnalyzer(ctx, cfg); err != nil {
		logger.WarnWithFields("photo analysis disabled", logger.Fields{"error": err.Error()})
	} else {
		analyzer = analysis.NewService(vision, ob)
	}

	engine := router.New(router.Deps{
		Chat:     services.NewChatService(orch, m),
		Leads:    services.NewLeadService(ob, m),
		Analysis: services.NewAnalysisService(analyzer, m),
		Metrics:  m,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
		},
		RecordsBackend: cfg.Records.Backend,
		ModelProvider:  cfg.LLM.Provider,
		PingRecords:    sinks.ping,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderRequestID, middleware.HeaderSessionID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}).Handler(engine)

	srv := &http.Server{
		Addr:              ":" + cfg.Secrets.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("api server listening", logger.Fields{"addr": srv.Addr, "records": cfg.Records.Backend})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.InfoWithFields("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WarnWithFields("http shutdown incomplete", logger.Fields{"error": err.Error()})
	}
	// 진행 중인 webhook/records 쓰기를 마저 끝낸다.
	ob.Wait()
	sinks.close(shutdownCtx)
}
