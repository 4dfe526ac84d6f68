package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-tutorhub/internal/bootstrap"
	"go-tutorhub/internal/config"
	"go-tutorhub/internal/events"
	"go-tutorhub/internal/messaging/kafka"
	"go-tutorhub/internal/messaging/kafka/consumer"
	"go-tutorhub/internal/payrate"
	"go-tutorhub/internal/payslip"
	"go-tutorhub/internal/shared/connection"
	"go-tutorhub/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RunConsumer serves batch generation requests and writes the payslip
// status stream to the audit log.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Postgres.Host,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Name,
		cfg.Postgres.Port,
		cfg.Postgres.SSLMode,
		cfg.ConnectRetries,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	var mongoDB *mongo.Database
	if cfg.PayslipStore == config.StoreMongo {
		client, db, err := connection.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return err
		}
		defer connection.DisconnectMongo(client)
		mongoDB = db
	}

	// the directory is only used for display names, so no redis cache here
	userService := user.NewService(user.NewRepository(gormDB), nil, logger)
	payRateService := payrate.NewService(sqlDB, payrate.NewRepository(gormDB), logger)
	payslipService := payslip.NewServiceWithDeps(sqlDB, newPayslipRepository(cfg, gormDB, mongoDB), payslip.Dependencies{
		Outbox:    kafka.NewOutboxRepository(sqlDB),
		Rates:     payRateService,
		Directory: userService,
	}, logger)

	generationReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.PayslipGenerationRequestedTopic,
		GroupID:        cfg.Kafka.GenerationGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer generationReader.Close()

	statusReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.PayslipStatusChangedTopic,
		GroupID:        cfg.Kafka.AuditGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer statusReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumePayslipGenerationRequested(ctx, generationReader, payslipService, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumePayslipStatusChanged(ctx, statusReader, bootstrap.NewStdoutAuditLogger(logger), logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
