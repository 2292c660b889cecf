package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/bets-service/posting"
	kpub "github.com/radieske/bet-community-platform/internal/bets-service/producer"
	"github.com/radieske/bet-community-platform/internal/bets-service/repo"
	"github.com/radieske/bet-community-platform/internal/shared/config"
	"github.com/radieske/bet-community-platform/internal/shared/db"
	skafka "github.com/radieske/bet-community-platform/internal/shared/kafka"
	"github.com/radieske/bet-community-platform/internal/shared/logger"
	"github.com/radieske/bet-community-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	loc, err := time.LoadLocation(cfg.GroupTimezone)
	if err != nil {
		log.Fatal("timezone inválido", zap.String("tz", cfg.GroupTimezone), zap.Error(err))
	}

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (bet_posted)
	postedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPosted)
	defer postedWriter.Close()

	// Métricas Prometheus do job de postagem
	ticks := prometheus.NewCounter(prometheus.CounterOpts{Name: "posting_ticks_total", Help: "ticks do scheduler"})
	posted := prometheus.NewCounter(prometheus.CounterOpts{Name: "posting_bets_posted_total", Help: "apostas postadas"})
	issues := prometheus.NewCounter(prometheus.CounterOpts{Name: "posting_queue_issues_total", Help: "apostas retidas na fila com motivo"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "posting_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(ticks, posted, issues, errorsBy)

	poster := &posting.Poster{
		Log:      log,
		Store:    repo.NewPostgres(pg),
		Pub:      kpub.NewKafkaPublisher(postedWriter),
		Loc:      loc,
		Interval: cfg.TickInterval,
		OnTick:   func() { ticks.Inc() },
		OnPosted: func() { posted.Inc() },
		OnIssue:  func() { issues.Inc() },
		OnError:  func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", ":"+cfg.MetricsPort))

	// Shutdown gracioso (SIGINT/SIGTERM); o drain para entre apostas
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("posting-worker started",
		zap.Duration("tick", cfg.TickInterval),
		zap.String("tz", cfg.GroupTimezone),
	)
	if err := poster.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("poster stopped with error", zap.Error(err))
	}
	log.Info("posting-worker stopped")
}
