package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/notifier"
	"github.com/radieske/bet-community-platform/internal/shared/config"
	skafka "github.com/radieske/bet-community-platform/internal/shared/kafka"
	"github.com/radieske/bet-community-platform/internal/shared/logger"
	"github.com/radieske/bet-community-platform/internal/shared/metrics"
)

const consumerGroup = "notifier-worker"

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Kafka readers + DLQ writers
	kickedReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicMemberKicked, consumerGroup)
	defer kickedReader.Close()
	postedReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetPosted, consumerGroup)
	defer postedReader.Close()
	kickedDLQ := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMemberKickedDLQ)
	defer kickedDLQ.Close()
	postedDLQ := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPostedDLQ)
	defer postedDLQ.Close()

	// Métricas Prometheus da entrega
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "notifier_consumed_total", Help: "mensagens consumidas"}, []string{"topic"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "notifier_delivered_total", Help: "entregas no chat"}, []string{"topic"})
	deadLettered := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "notifier_dead_lettered_total", Help: "mensagens na DLQ"}, []string{"topic"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "notifier_errors_total", Help: "erros por estágio"}, []string{"topic", "stage"})
	prometheus.MustRegister(consumed, delivered, deadLettered, errorsBy)

	n := &notifier.Notifier{
		Log:     log,
		Gateway: notifier.NewGatewayClient(cfg.ChatGatewayURL),
	}

	kicks := &notifier.Consumer{
		Log:    log,
		Reader: kickedReader,
		DLQ:    kickedDLQ,
		Handle: func(ctx context.Context, _, value []byte) error {
			return n.HandleMemberKicked(ctx, value)
		},
		OnConsumed:     func() { consumed.WithLabelValues(cfg.TopicMemberKicked).Inc() },
		OnDelivered:    func() { delivered.WithLabelValues(cfg.TopicMemberKicked).Inc() },
		OnDeadLettered: func() { deadLettered.WithLabelValues(cfg.TopicMemberKicked).Inc() },
		OnError:        func(stage string) { errorsBy.WithLabelValues(cfg.TopicMemberKicked, stage).Inc() },
	}
	posts := &notifier.Consumer{
		Log:    log,
		Reader: postedReader,
		DLQ:    postedDLQ,
		Handle: func(ctx context.Context, _, value []byte) error {
			return n.HandleBetPosted(ctx, value)
		},
		OnConsumed:     func() { consumed.WithLabelValues(cfg.TopicBetPosted).Inc() },
		OnDelivered:    func() { delivered.WithLabelValues(cfg.TopicBetPosted).Inc() },
		OnDeadLettered: func() { deadLettered.WithLabelValues(cfg.TopicBetPosted).Inc() },
		OnError:        func(stage string) { errorsBy.WithLabelValues(cfg.TopicBetPosted, stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", ":"+cfg.MetricsPort))

	// Shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("notifier-worker started",
		zap.String("topics", cfg.TopicMemberKicked+","+cfg.TopicBetPosted),
		zap.String("group", consumerGroup),
	)

	var wg sync.WaitGroup
	for _, c := range []*notifier.Consumer{kicks, posts} {
		wg.Add(1)
		go func(c *notifier.Consumer) {
			defer wg.Done()
			if err := c.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("consumer stopped with error", zap.Error(err))
				cancel()
			}
		}(c)
	}
	wg.Wait()
	log.Info("notifier-worker stopped")
}
