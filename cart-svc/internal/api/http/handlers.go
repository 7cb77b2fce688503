package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"swayum-canteen/cart-svc/internal/domain"
	"swayum-canteen/cart-svc/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type Handler struct {
	Carts  service.CartServiceInterface
	Secret []byte
}

func NewHandler(carts service.CartServiceInterface, secret string) *Handler {
	return &Handler{Carts: carts, Secret: []byte(secret)}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{itemId}", h.updateItem).Methods("PATCH")
	r.HandleFunc("/api/cart/items/{itemId}", h.removeItem).Methods("DELETE")
}

// ownerID identifies the cart. Signed-in users carry the same token the
// order service issues; everyone else supplies a client-generated guest id
// so the cart survives page reloads.
func (h *Handler) ownerID(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		parsed, err := jwt.Parse(header[7:], func(t *jwt.Token) (any, error) {
			return h.Secret, nil
		})
		if err == nil && parsed.Valid {
			if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
				if userID, _ := claims["user_id"].(string); userID != "" {
					return userID
				}
			}
		}
	}
	return r.Header.Get("X-Guest-ID")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrQuantityExceedsLimit):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrLineNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "cart-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	owner := h.ownerID(r)
	if owner == "" {
		http.Error(w, "Missing user token or X-Guest-ID header", http.StatusBadRequest)
		return
	}

	cart, err := h.Carts.Get(r.Context(), owner)
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	owner := h.ownerID(r)
	if owner == "" {
		http.Error(w, "Missing user token or X-Guest-ID header", http.StatusBadRequest)
		return
	}

	if err := h.Carts.Clear(r.Context(), owner); err != nil {
		writeCartError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	owner := h.ownerID(r)
	if owner == "" {
		http.Error(w, "Missing user token or X-Guest-ID header", http.StatusBadRequest)
		return
	}

	var line domain.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	cart, err := h.Carts.Add(r.Context(), owner, line)
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cart)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	owner := h.ownerID(r)
	if owner == "" {
		http.Error(w, "Missing user token or X-Guest-ID header", http.StatusBadRequest)
		return
	}

	itemID, err := strconv.Atoi(mux.Vars(r)["itemId"])
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	var req struct {
		Quantity   int    `json:"quantity"`
		PickupTime string `json:"pickup_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	cart, err := h.Carts.UpdateQuantity(r.Context(), owner, itemID, req.PickupTime, req.Quantity)
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	owner := h.ownerID(r)
	if owner == "" {
		http.Error(w, "Missing user token or X-Guest-ID header", http.StatusBadRequest)
		return
	}

	itemID, err := strconv.Atoi(mux.Vars(r)["itemId"])
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	cart, err := h.Carts.Remove(r.Context(), owner, itemID, r.URL.Query().Get("pickup_time"))
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
