package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	mhttp "github.com/radieske/bet-community-platform/internal/membership-service/http"
	"github.com/radieske/bet-community-platform/internal/membership-service/processor"
	kpub "github.com/radieske/bet-community-platform/internal/membership-service/producer"
	"github.com/radieske/bet-community-platform/internal/membership-service/repo"
	"github.com/radieske/bet-community-platform/internal/membership-service/setup"
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

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis: store do handshake de setup
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writers (member_joined / member_kicked)
	joinedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMemberJoined)
	defer joinedWriter.Close()
	kickedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMemberKicked)
	defer kickedWriter.Close()

	// deps
	repository := repo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(joinedWriter, kickedWriter)
	proc := processor.New(log, repository, publ, cfg.RejoinGraceHours)

	chat := setup.NewGatewayClient(cfg.ChatGatewayURL)
	flow := setup.NewFlow(log, setup.NewRedisStore(rdb), chat)

	// HTTP público
	api := mhttp.NewServer(log, proc, flow)
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

	log.Info("membership-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
