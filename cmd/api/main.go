package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/satriojati/go-storefront/internal/auth"
	"github.com/satriojati/go-storefront/internal/cart"
	"github.com/satriojati/go-storefront/internal/catalog"
	"github.com/satriojati/go-storefront/internal/checkout"
	"github.com/satriojati/go-storefront/internal/config"
	"github.com/satriojati/go-storefront/internal/httpx"
	kafkax "github.com/satriojati/go-storefront/internal/kafka"
	"github.com/satriojati/go-storefront/internal/logx"
	"github.com/satriojati/go-storefront/internal/payment"
	"github.com/satriojati/go-storefront/internal/postgres"
	"github.com/satriojati/go-storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logx.New(logx.Options{Service: cfg.ServiceName, Env: cfg.Env, Level: cfg.LogLevel})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicSessionCreated, 1024)
	prod.Start(ctx)

	// Checkout pipeline
	products := &catalog.Repo{DB: db}
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)
	builder := checkout.NewBuilder(products, gateway, cfg)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	router := httpx.NewRouter()
	ch := &httpx.CheckoutHandler{
		Verifier: verifier,
		Builder:  builder,
		Producer: prod,
		Cache:    rdb,
		Service:  cfg.ServiceName,
	}
	ch.Register(router)

	carts := &httpx.CartHandler{
		Stores: func(sessionID string) *cart.Store {
			return cart.NewStore(cart.NewRedisPersister(rdb, sessionID))
		},
	}
	carts.Register(router)

	ph := &httpx.ProductsHandler{Repo: products}
	ph.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	cancel()
	prod.WaitClosed()
}
