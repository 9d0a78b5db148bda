package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	app "github.com/loopspell2/exchange/internal/app/engine"
	commandreader "github.com/loopspell2/exchange/internal/usecase/command-reader"
	dbpublisher "github.com/loopspell2/exchange/internal/usecase/db-publisher"
	marketpublisher "github.com/loopspell2/exchange/internal/usecase/market-publisher"
	"github.com/loopspell2/exchange/internal/usecase/snapshot"
	"github.com/loopspell2/exchange/pkg/config"
	"github.com/loopspell2/exchange/pkg/logger"
	"github.com/loopspell2/exchange/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = strings.Split(cfg.RedisConfig.Addrs, ",")
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB

	rclient := redis.NewClient(log, redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	reader := commandreader.NewReader(cfg.IngressConfig, rclient, log)
	snapshotStore := snapshot.NewStore(rclient, cfg.SnapshotKey, log)
	marketPublisher := marketpublisher.NewPublisher(cfg.IngressConfig, rclient, log)
	dbPublisher := dbpublisher.NewPublisher(cfg.KafkaConfig, log)

	engine, err := app.NewEngine(
		cfg,
		reader,
		snapshotStore,
		marketPublisher,
		dbPublisher,
		log,
	)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "create_engine",
		})
		return
	}

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("exchange engine started", logger.Field{
		Key:   "markets",
		Value: cfg.Markets,
	})

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := dbPublisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_db_publisher",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("exchange engine shutdown complete")
}
