package notifier

import (
	"context"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"rank-service/internal/config"
	"rank-service/internal/repository/model"
	"sync"
	"time"
)

const (
	rabbitMqUriFormat = "amqp://%s:%s@%s:5672"
	exchange          = "mc:gameserver:all"
	publishTimeout    = 5 * time.Second
)

type rabbitMqNotifier struct {
	channel *amqp.Channel
}

func NewRabbitMqNotifier(ctx context.Context, wg *sync.WaitGroup, logger *zap.SugaredLogger, cfg config.RabbitMQConfig) (Notifier, error) {
	conn, err := amqp.Dial(fmt.Sprintf(rabbitMqUriFormat, cfg.Username, cfg.Password, cfg.Host))
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("shutting down rabbitmq connection")
		if err := conn.Close(); err != nil {
			logger.Errorw("failed to close rabbitmq connection", "error", err)
		}
	}()

	return &rabbitMqNotifier{
		channel: channel,
	}, nil
}

func (r *rabbitMqNotifier) RankUpdate(ctx context.Context, rank *model.Rank, changeType ChangeType) error {
	return r.publish(ctx, rankUpdateEvent(rank, changeType))
}

func (r *rabbitMqNotifier) RankPermissionUpdate(ctx context.Context, rank string, permission string, changeType ChangeType) error {
	return r.publish(ctx, rankPermissionUpdateEvent(rank, permission, changeType))
}

func (r *rabbitMqNotifier) PlayerProfileUpdate(ctx context.Context, player string, field ProfileField, value string, changeType ChangeType) error {
	return r.publish(ctx, playerProfileUpdateEvent(player, field, value, changeType))
}

func (r *rabbitMqNotifier) publish(ctx context.Context, e event) error {
	bytes, err := e.marshal()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return r.channel.PublishWithContext(ctx,
		exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/x-protobuf",
			Type:        e.messageType,
			MessageId:   e.payload.Fields["eventId"].GetStringValue(),
			Body:        bytes,
		})
}
