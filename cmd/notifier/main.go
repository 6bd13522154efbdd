package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/feed"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logx"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logx.Setup(cfg.LogLevel, cfg.LogPretty, cfg.ServiceName+"-notifier")
	if !cfg.KafkaEnabled() {
		log.Fatal().Msg("KAFKA_BROKERS is required for the notifier")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Feed writer
	f := &feed.Feed{Redis: rdb, Service: cfg.ServiceName}

	// Consumer
	topics := []string{orders.TopicOrderCreated, orders.TopicOrderStatusChanged}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.FeedGroup, topics, cfg.FeedWorkers)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info().Str("group", cfg.FeedGroup).Strs("topics", topics).Int("workers", cfg.FeedWorkers).Msg("notifier consumer started")
		if err := cons.Start(ctx, f.Handle); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer...")
	cancel()
	<-done
}
