package httpapi

import (
	"log"
	"net/http"

	"swayum-canteen/order-svc/internal/auth"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(auth.Middleware(handler.Auth)))
	handler.RegisterRoutes(r)

	return cors.Default().Handler(r)
}

func StartServer(addr string, handler http.Handler) {
	log.Printf("[order-svc] listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
