package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/audit"
	bhttp "github.com/radieske/bet-community-platform/internal/bets-service/http"
	"github.com/radieske/bet-community-platform/internal/bets-service/oddscache"
	"github.com/radieske/bet-community-platform/internal/bets-service/repo"
	"github.com/radieske/bet-community-platform/internal/bets-service/service"
	sharedcache "github.com/radieske/bet-community-platform/internal/shared/cache"
	"github.com/radieske/bet-community-platform/internal/shared/config"
	"github.com/radieske/bet-community-platform/internal/shared/db"
	skafka "github.com/radieske/bet-community-platform/internal/shared/kafka"
	"github.com/radieske/bet-community-platform/internal/shared/logger"
	"github.com/radieske/bet-community-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	loc, err := time.LoadLocation(cfg.GroupTimezone)
	if err != nil {
		log.Fatal("timezone", zap.String("tz", cfg.GroupTimezone), zap.Error(err))
	}

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis: cache de odds corrente por aposta
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer do audit_log (best-effort)
	auditWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicAuditLog)
	defer auditWriter.Close()

	// deps
	repository := repo.NewPostgres(pg)
	sink := audit.NewPublisher(log, auditWriter)
	ocache := oddscache.New(rdb, 60*time.Second)
	svc := service.New(log, repository, sink, ocache, loc)

	// HTTP público (admin)
	api := bhttp.NewServer(log, svc)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	defer metricsSrv.Close()
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("bets-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
