package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"tableside/internal/auth"
	"tableside/internal/config"
	kafkawrap "tableside/internal/kafka"
	"tableside/internal/logger"
	"tableside/internal/order"
	"tableside/internal/order/api"
	"tableside/internal/order/db"
	rediswrap "tableside/internal/order/redis"
	"tableside/internal/pickup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- SQLite Setup ---
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.DSN)
	if err != nil {
		log.Fatal("DATABASE", "failed to open database: "+err.Error())
	}
	defer sqldb.Close()
	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	db.Migrate(bunDB)
	db.Seed(bunDB)

	// --- Redis Setup ---
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("REDIS", "failed to connect to Redis: "+err.Error())
	}
	log.Info("REDIS", "connected to "+cfg.Redis.Addr)

	// --- Kafka Setup ---
	var publisher order.KafkaPublisher = kafkawrap.Nop{}
	if cfg.Kafka.Enabled {
		topics := []string{
			cfg.Kafka.Topics.OrderPlaced,
			cfg.Kafka.Topics.OrderResolved,
			cfg.Kafka.Topics.OrderPaid,
			cfg.Kafka.Topics.OrderCancelled,
		}
		if err := kafkawrap.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
			log.Warn("KAFKA", "topic setup failed, continuing: "+err.Error())
		}
		producer := kafkawrap.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		publisher = producer
	} else {
		log.Info("KAFKA", "disabled, order events stay local")
	}

	// --- Initialize Dependencies ---
	dbLayer := &db.DB{Bun: bunDB}
	tableLock := rediswrap.NewRedis(redisClient, cfg.Table.LockTTL)
	issuer := &auth.SessionIssuer{Secret: []byte(cfg.Session.JWTSecret), TTL: cfg.Session.TokenTTL}

	service := order.NewOrderService(dbLayer, tableLock, publisher, log)
	service.StartResolver(ctx)

	handler := &api.Handler{
		OrderService: service,
		Sessions:     issuer,
		PickupQR:     pickup.NewQRGenerator(cfg.Session.JWTSecret),
	}

	// --- Setup Router ---
	r := chi.NewRouter()
	r.Post("/login", handler.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(issuer))
		r.Post("/is_occupied", handler.IsOccupied)
		r.Post("/relieve_occupied", handler.RelieveOccupied)
		r.Post("/add_dish", handler.AddDish)
		r.Post("/remove_dish", handler.RemoveDish)
		r.Post("/get_cart", handler.GetCart)
		r.Post("/get_order", handler.GetOrder)
		r.Post("/add_user_order", handler.AddOrder)
		r.Post("/check", handler.Check)
		r.Post("/pay", handler.Pay)
		r.Post("/cancelpay", handler.CancelPay)
		r.Post("/get_order_dish_info", handler.GetOrderDishInfo)
		r.Post("/pickup_code", handler.PickupCode)
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", "order service listening on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "http server error: "+err.Error())
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("SERVER", "shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("SERVER", "forced to shut down: "+err.Error())
	}
	log.Info("SERVER", "server exited gracefully")
}
