package app

import (
	"context"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"os"
	"os/signal"
	"rank-service/internal/chat"
	"rank-service/internal/config"
	"rank-service/internal/metrics"
	"rank-service/internal/notifier"
	"rank-service/internal/placeholder"
	"rank-service/internal/rank"
	"rank-service/internal/repository"
	"rank-service/internal/service"
	"rank-service/internal/session"
	"sync"
	"syscall"
)

func Run(cfg *config.Config, logger *zap.SugaredLogger) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	wg := &sync.WaitGroup{}

	delayedCtx, repoCancel := context.WithCancel(context.Background())
	delayedWg := &sync.WaitGroup{}

	repo, err := newRepository(delayedCtx, logger, delayedWg, cfg.Storage)
	if err != nil {
		logger.Fatalw("failed to create repository", "error", err)
	}

	notif, err := newNotifier(delayedCtx, delayedWg, logger, cfg.Notifier)
	if err != nil {
		logger.Fatalw("failed to create notifier", "error", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	metrics.Serve(ctx, wg, logger, cfg.MetricsPort)

	engine := placeholder.NewEngine(m, placeholder.WithCacheSize(cfg.Chat.PlaceholderCacheSize))

	ranks, err := rank.NewStore(ctx, logger, repo, engine, m)
	if err != nil {
		logger.Fatalw("failed to load ranks", "error", err)
	}
	sessions := session.NewManager(logger, repo, ranks, m)
	renderer := chat.NewRenderer(engine, ranks, chat.WithFormat(cfg.Chat.Format))

	svc := service.NewRankService(logger, ranks, sessions, renderer, notif)
	service.RunServices(ctx, logger, wg, cfg, svc)

	<-ctx.Done()
	wg.Wait()
	logger.Info("shutting down")

	logger.Info("shutting down delayed services")
	repoCancel()
	delayedWg.Wait()
}

func newRepository(ctx context.Context, logger *zap.SugaredLogger, wg *sync.WaitGroup, cfg config.StorageConfig) (repository.Repository, error) {
	switch cfg.Backend {
	case config.StorageMongoDB:
		return repository.NewMongoRepository(ctx, logger, wg, cfg.MongoDB)
	case config.StorageSQLite, config.StoragePostgres:
		return repository.NewSQLRepository(ctx, logger, wg, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

func newNotifier(ctx context.Context, wg *sync.WaitGroup, logger *zap.SugaredLogger, cfg config.NotifierConfig) (notifier.Notifier, error) {
	switch cfg.Backend {
	case config.NotifierKafka:
		return notifier.NewKafkaNotifier(ctx, wg, logger, cfg.Kafka), nil
	case config.NotifierRabbitMQ:
		return notifier.NewRabbitMqNotifier(ctx, wg, logger, cfg.RabbitMQ)
	default:
		return nil, fmt.Errorf("unsupported notifier %q", cfg.Backend)
	}
}
