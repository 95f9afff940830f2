package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/SaisandeepKv/vernon-clinic-sub000/config"
	"github.com/SaisandeepKv/vernon-clinic-sub000/db"
	"github.com/SaisandeepKv/vernon-clinic-sub000/eventbus"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/repositories"
)

// leadworker 는 API 가 발행한 리드 이벤트를 받아 기록 저장소에 쓴다.
// 실패한 이벤트는 재시도 토픽을 거쳐 다시 처리되고, 끝내 실패하면 DLQ 로 간다.
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.InitFromEnv("LOG_LEVEL", cfg.Logging.Level)

	brokers := cfg.Secrets.KafkaBootstrapServers
	if brokers == "" {
		logger.Log.Fatalf("KAFKA_BOOTSTRAP_SERVERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink, closeSink, err := openRecords(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("failed to open records store: %v", err)
	}
	defer closeSink()

	topic := eventbus.NewTopic(cfg.Records.EventTopic)
	for _, name := range topic.All() {
		if err := eventbus.EnsureTopic(brokers, name, 3); err != nil {
			logger.WarnWithFields("kafka topic check failed", logger.Fields{"topic": name, "error": err.Error()})
		}
	}

	pub, err := eventbus.NewKafkaPublisher(brokers)
	if err != nil {
		logger.Log.Fatalf("failed to create kafka publisher: %v", err)
	}
	defer pub.Close()

	consumer := &eventbus.KafkaConsumer{Brokers: brokers, GroupID: cfg.Secrets.KafkaGroupID, Publisher: pub}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorWithFields(name+" stopped", logger.Fields{"error": err.Error()})
				cancel()
			}
		}()
	}
	run("lead consumer", func(ctx context.Context) error {
		return consumer.Subscribe(ctx, topic, leadHandler(sink))
	})
	run("retry reinjector", func(ctx context.Context) error {
		return consumer.RunRetryReinjector(ctx, topic)
	})

	logger.InfoWithFields("lead worker started", logger.Fields{"topic": topic.Base(), "backend": cfg.Worker.Backend})

	select {
	case <-sigChan:
		logger.Log.Info("received shutdown signal, stopping lead worker...")
	case <-ctx.Done():
	}
	cancel()
	wg.Wait()
	logger.Log.Info("lead worker stopped")
}

func openRecords(ctx context.Context, cfg config.AppConfig) (recordSink, func(), error) {
	switch cfg.Worker.Backend {
	case "mongo":
		if err := db.InitMongo(ctx); err != nil {
			return nil, nil, err
		}
		return repositories.NewRecordRepository(db.Database()), func() {
			_ = db.DisconnectMongo(context.Background())
		}, nil
	case "postgres":
		pg, err := db.OpenPostgres(ctx, cfg.Secrets.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pg); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return repositories.NewPostgresRecordRepository(pg), func() { pg.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported lead worker backend: %s", cfg.Worker.Backend)
	}
}
