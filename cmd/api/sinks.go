package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/httpclient"
	"github.com/SaisandeepKv/vernon-clinic-sub000/config"
	"github.com/SaisandeepKv/vernon-clinic-sub000/db"
	"github.com/SaisandeepKv/vernon-clinic-sub000/eventbus"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
	"github.com/SaisandeepKv/vernon-clinic-sub000/repositories"
)

// sinks 는 outbox 가 쓰는 외부 저장소들이다. 설정되지 않은 sink 는 건너뛴다.
type sinks struct {
	tasks   []outbox.Task
	ping    func(context.Context) error
	closers []func(context.Context)
}

func (s *sinks) close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i](ctx)
	}
}

func openSinks(ctx context.Context, cfg config.AppConfig) (*sinks, error) {
	s := &sinks{}

	if url := cfg.Secrets.SheetsWebhookURL; url != "" {
		s.tasks = append(s.tasks, &outbox.WebhookTask{
			URL:    url,
			Client: httpclient.New(httpclient.Config{Timeout: cfg.Records.WriteTimeout}),
		})
	}

	switch cfg.Records.Backend {
	case "mongo":
		if err := db.InitMongo(ctx); err != nil {
			return nil, err
		}
		s.tasks = append(s.tasks, &outbox.RecordTask{Sink: repositories.NewRecordRepository(db.Database())})
		s.ping = func(ctx context.Context) error { return db.Client().Ping(ctx, nil) }
		s.closers = append(s.closers, func(ctx context.Context) { _ = db.DisconnectMongo(ctx) })
	case "postgres":
		pg, err := db.OpenPostgres(ctx, cfg.Secrets.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pg); err != nil {
			pg.Close()
			return nil, err
		}
		s.tasks = append(s.tasks, &outbox.RecordTask{Sink: repositories.NewPostgresRecordRepository(pg)})
		s.ping = pg.PingContext
		s.closers = append(s.closers, func(context.Context) { closeDB(pg) })
	case "none":
		logger.WarnWithFields("records sink disabled", nil)
	default:
		return nil, fmt.Errorf("unsupported records backend: %s", cfg.Records.Backend)
	}

	if brokers := cfg.Secrets.KafkaBootstrapServers; brokers != "" {
		if err := eventbus.EnsureTopic(brokers, cfg.Records.EventTopic, 1); err != nil {
			logger.WarnWithFields("kafka topic check failed", logger.Fields{"topic": cfg.Records.EventTopic, "error": err.Error()})
		}
		pub, err := eventbus.NewKafkaPublisher(brokers)
		if err != nil {
			return nil, err
		}
		s.tasks = append(s.tasks, &outbox.EventTask{Publisher: pub, Topic: cfg.Records.EventTopic})
		s.closers = append(s.closers, func(context.Context) { pub.Close() })
	}

	names := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		names = append(names, t.Name())
	}
	logger.InfoWithFields("outbox sinks ready", logger.Fields{"tasks": names})
	return s, nil
}

func closeDB(pg *sql.DB) {
	if err := pg.Close(); err != nil {
		logger.WarnWithFields("postgres close failed", logger.Fields{"error": err.Error()})
	}
}
