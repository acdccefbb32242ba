package notifier

import (
	"context"
	"fmt"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"rank-service/internal/config"
	"rank-service/internal/repository/model"
	"sync"
)

const topic = "rank-service"

type kafkaNotifier struct {
	logger *zap.SugaredLogger
	w      *kafka.Writer
}

func NewKafkaNotifier(ctx context.Context, wg *sync.WaitGroup, logger *zap.SugaredLogger, cfg config.KafkaConfig) Notifier {
	w := &kafka.Writer{
		Addr:        kafka.TCP(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		Topic:       topic,
		Async:       true,
		Balancer:    &kafka.LeastBytes{},
		ErrorLogger: zap.NewStdLog(logger.Desugar()),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("shutting down kafka writer")
		if err := w.Close(); err != nil {
			logger.Errorw("failed to close kafka writer", "error", err)
		}
	}()

	return &kafkaNotifier{
		logger: logger,
		w:      w,
	}
}

func (k *kafkaNotifier) RankUpdate(ctx context.Context, rank *model.Rank, changeType ChangeType) error {
	return k.publish(ctx, rankUpdateEvent(rank, changeType))
}

func (k *kafkaNotifier) RankPermissionUpdate(ctx context.Context, rank string, permission string, changeType ChangeType) error {
	return k.publish(ctx, rankPermissionUpdateEvent(rank, permission, changeType))
}

func (k *kafkaNotifier) PlayerProfileUpdate(ctx context.Context, player string, field ProfileField, value string, changeType ChangeType) error {
	return k.publish(ctx, playerProfileUpdateEvent(player, field, value, changeType))
}

func (k *kafkaNotifier) publish(ctx context.Context, e event) error {
	bytes, err := e.marshal()
	if err != nil {
		return err
	}

	if err := k.w.WriteMessages(ctx, kafka.Message{
		Value: bytes,
		Headers: []kafka.Header{
			{Key: "X-Proto-Type", Value: []byte(e.payload.ProtoReflect().Descriptor().FullName())},
			{Key: "X-Message-Type", Value: []byte(e.messageType)},
		},
	}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
