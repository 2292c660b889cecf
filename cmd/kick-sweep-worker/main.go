package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/membership-service/processor"
	kpub "github.com/radieske/bet-community-platform/internal/membership-service/producer"
	"github.com/radieske/bet-community-platform/internal/membership-service/repo"
	"github.com/radieske/bet-community-platform/internal/membership-service/sweep"
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

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (member_kicked)
	kickedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMemberKicked)
	defer kickedWriter.Close()

	// Métricas Prometheus da varredura
	swept := prometheus.NewCounter(prometheus.CounterOpts{Name: "kick_sweep_members_swept_total", Help: "membros avaliados na varredura"})
	kicked := prometheus.NewCounter(prometheus.CounterOpts{Name: "kick_sweep_members_kicked_total", Help: "membros removidos"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "kick_sweep_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(swept, kicked, errorsBy)

	// deps
	repository := repo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(nil, kickedWriter)
	proc := processor.New(log, repository, publ, cfg.RejoinGraceHours)

	sweeper := &sweep.Sweeper{
		Log:              log,
		Store:            repository,
		Kicker:           proc,
		Interval:         cfg.SweepInterval,
		DefaultTrialDays: cfg.TrialDays,
		OnSwept:          func() { swept.Inc() },
		OnKicked:         func() { kicked.Inc() },
		OnError:          func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", ":"+cfg.MetricsPort))

	// Shutdown gracioso (SIGINT/SIGTERM); a varredura para entre membros
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("kick-sweep-worker started", zap.Duration("interval", cfg.SweepInterval))
	if err := sweeper.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("sweeper stopped with error", zap.Error(err))
	}
	log.Info("kick-sweep-worker stopped")
}
