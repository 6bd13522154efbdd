package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/admin"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/feed"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logx"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/render"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logx.Setup(cfg.LogLevel, cfg.LogPretty, cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Cart + double-submit guard
	var (
		carts *cart.Store
		guard orders.Guard
	)
	switch cfg.CartBackend {
	case "memory":
		carts = cart.NewStore(cart.NewMemoryBackend())
		guard = &orders.MemoryGuard{}
	default:
		carts = cart.NewStore(&cart.RedisBackend{Redis: rdb})
		guard = &orders.RedisGuard{Redis: rdb}
	}

	// Kafka producer (opsional)
	var (
		prod   *kafkax.Producer
		events *orders.Emitter
	)
	if cfg.KafkaEnabled() {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024)
		prod.Start()
		events = &orders.Emitter{Sink: prod, Producer: cfg.ServiceName}
	} else {
		log.Warn().Msg("KAFKA_BROKERS empty, order events disabled")
	}

	// Repo & handler
	products := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	sessions := &admin.Sessions{Redis: rdb}
	views := render.MustNew()
	cookies := httpx.Cookies{Secure: cfg.CookieSecure}

	router := httpx.NewRouter(logger, cfg.TrustedProxies...)
	sh := &httpx.StorefrontHandler{
		Products: products,
		Orders:   orderRepo,
		Carts:    carts,
		Checkout: &orders.Checkout{Carts: carts, Orders: orderRepo, Guard: guard, Events: events},
		Views:    views,
		Cookies:  cookies,
	}
	sh.Register(router)
	ah := &httpx.AdminHandler{
		Auth:     admin.NewAuthenticator(&admin.Repo{DB: db}, sessions, cfg.LoginRatePerMin),
		Sessions: sessions,
		Products: products,
		Orders:   orderRepo,
		Feed:     &feed.Feed{Redis: rdb, Service: cfg.ServiceName},
		Events:   events,
		Views:    views,
		Cookies:  cookies,
	}
	ah.Register(router)

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("cart_backend", cfg.CartBackend).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close()      // tutup inbox -> flush & close writer
		prod.WaitClosed() // drain
	}
}
