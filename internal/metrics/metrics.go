package metrics

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"net/http"
	"sync"
	"time"
)

const namespace = "rank_service"

type Metrics struct {
	PlaceholderCacheHits   prometheus.Counter
	PlaceholderCacheMisses prometheus.Counter
	RankMutations          *prometheus.CounterVec
	ProfileWrites          *prometheus.CounterVec
	OnlinePlayers          prometheus.Gauge
}

// New creates the service collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PlaceholderCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placeholder_cache_hits_total",
			Help:      "Template expansions served from the placeholder cache.",
		}),
		PlaceholderCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placeholder_cache_misses_total",
			Help:      "Template expansions that had to be rendered.",
		}),
		RankMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_mutations_total",
			Help:      "Rank store mutations by operation and result.",
		}, []string{"operation", "result"}),
		ProfileWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_writes_total",
			Help:      "Player profile write-throughs by result.",
		}, []string{"result"}),
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Players with an active session.",
		}),
	}

	reg.MustRegister(m.PlaceholderCacheHits, m.PlaceholderCacheMisses, m.RankMutations, m.ProfileWrites, m.OnlinePlayers)
	return m
}

// Result turns an error into the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Serve exposes the default registry on /metrics until ctx is cancelled.
func Serve(ctx context.Context, wg *sync.WaitGroup, logger *zap.SugaredLogger, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infow("serving metrics", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("metrics server failed", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("failed to shut down metrics server", "error", err)
		}
	}()
}
