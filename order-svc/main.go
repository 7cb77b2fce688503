package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"swayum-canteen/config"
	httpapi "swayum-canteen/order-svc/internal/api/http"
	"swayum-canteen/order-svc/internal/auth"
	"swayum-canteen/order-svc/internal/service"
	"swayum-canteen/order-svc/internal/storage"
	"swayum-canteen/order-svc/internal/tracker"
)

func demoDelay(key string, fallback time.Duration) time.Duration {
	raw := config.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	if err := storage.EnsureSchema(db); err != nil {
		log.Fatal("[order-svc] failed to ensure schema:", err)
	}

	writer := config.NewKafkaWriter(config.OrderEventsTopic)
	defer writer.Close()

	menuRepo := storage.NewMenuRepository(db)
	orderRepo := storage.NewOrderRepository(db)
	userRepo := storage.NewUserRepository(db)

	cache := storage.NewStatusCache(rdb, 24*time.Hour)
	carts := storage.NewCartClearer(rdb)
	publisher := storage.NewEventPublisher(writer)

	menuSvc := service.NewMenuService(menuRepo)
	orderSvc := service.NewOrderService(orderRepo, menuRepo, publisher, cache, carts)
	authSvc := auth.NewService(userRepo, config.GetEnv("JWT_SECRET", "dev-secret"))

	trk := tracker.New(orderSvc, cache,
		demoDelay("DEMO_PREPARE_AFTER", 8*time.Second),
		demoDelay("DEMO_READY_AFTER", 15*time.Second))

	reader := config.NewKafkaReader(config.OrderEventsTopic, "order-svc-tracker")
	defer reader.Close()
	go trk.Run(context.Background(), reader)

	qr := &service.DefaultQRGenerator{
		BaseURL: config.GetEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
	}

	handler := httpapi.NewHandler(menuSvc, orderSvc, authSvc, trk, qr)
	httpapi.StartServer(":"+config.GetEnv("ORDER_SVC_PORT", "8081"), httpapi.NewRouter(handler))
}
