package producer

import (
	"context"
	"time"

	"go-tutorhub/internal/messaging/kafka"

	"go.uber.org/zap"
)

// WorkerConfig tunes the outbox loop. Zero values fall back to defaults;
// a zero Retention keeps sent events forever.
type WorkerConfig struct {
	PollInterval  time.Duration
	Retention     time.Duration
	PurgeInterval time.Duration
}

func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	cfg WorkerConfig,
) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.PurgeInterval <= 0 {
		cfg.PurgeInterval = time.Hour
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	purgeTicker := time.NewTicker(cfg.PurgeInterval)
	defer purgeTicker.Stop()

	log.Info("outbox worker started",
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("retention", cfg.Retention),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := ProcessPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		case now := <-purgeTicker.C:
			if cfg.Retention <= 0 {
				continue
			}
			if err := PurgeSentEvents(ctx, repo, now.Add(-cfg.Retention), log); err != nil {
				log.Error("purge sent outbox events failed", zap.Error(err))
			}
		}
	}
}

// PurgeSentEvents drops delivered events processed before cutoff.
func PurgeSentEvents(ctx context.Context, repo kafka.OutboxRepository, cutoff time.Time, logger *zap.Logger) error {
	n, err := repo.PurgeSent(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("purged sent outbox events", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return nil
}

const outboxBatchSize = 50

func ProcessPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, outboxBatchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := kafka.ValidateOutboxEvent(event); err != nil {
			logger.Error("invalid outbox event, marking failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return nil
}
