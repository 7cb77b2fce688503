package main

import (
	httpapi "swayum-canteen/cart-svc/internal/api/http"
	"swayum-canteen/cart-svc/internal/service"
	"swayum-canteen/cart-svc/internal/storage"
	"swayum-canteen/config"
)

func main() {
	rdb := config.MustInitRedis()
	defer rdb.Close()

	carts := service.NewCartService(storage.NewCartRepository(rdb))
	handler := httpapi.NewHandler(carts, config.GetEnv("JWT_SECRET", "dev-secret"))

	httpapi.StartServer(":"+config.GetEnv("CART_SVC_PORT", "8082"), httpapi.NewRouter(handler))
}
