package main

import (
	"log"
	"net/http"
	"os"

	"swayum-canteen/api-gateway/internal/gateway"

	"github.com/rs/cors"
)

func main() {
	config := gateway.Config{
		OrderSvcURL:  getEnv("ORDER_SVC_URL", "http://localhost:8081"),
		CartSvcURL:   getEnv("CART_SVC_URL", "http://localhost:8082"),
		NotifySvcURL: getEnv("NOTIFY_SVC_URL", "http://localhost:8083"),
	}

	gw := gateway.NewGateway(config, &http.Client{})

	r := gw.SetupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080", "http://127.0.0.1:8080", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	log.Println("API Gateway starting on port 8080")
	log.Fatal(http.ListenAndServe(":8080", handler))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
