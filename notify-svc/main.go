package main

import (
	"context"

	"swayum-canteen/config"
	httpapi "swayum-canteen/notify-svc/internal/api/http"
	"swayum-canteen/notify-svc/internal/service"
	"swayum-canteen/notify-svc/internal/storage"
)

func main() {
	rdb := config.MustInitRedis()
	defer rdb.Close()

	store := storage.NewNotificationStore(rdb)

	reader := config.NewKafkaReader(config.OrderEventsTopic, "notify-svc-consumer")
	defer reader.Close()
	go service.NewConsumer(store).Start(context.Background(), reader)

	handler := httpapi.NewHandler(store, config.GetEnv("JWT_SECRET", "dev-secret"))
	httpapi.StartServer(":"+config.GetEnv("NOTIFY_SVC_PORT", "8083"), httpapi.NewRouter(handler))
}
