package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"swayum-canteen/notify-svc/internal/domain"
	"swayum-canteen/notify-svc/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type Handler struct {
	Store  service.NotificationStore
	Secret []byte
}

func NewHandler(store service.NotificationStore, secret string) *Handler {
	return &Handler{Store: store, Secret: []byte(secret)}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/notifications", h.getNotifications).Methods("GET")
	r.HandleFunc("/api/preferences", h.getPreferences).Methods("GET")
	r.HandleFunc("/api/preferences", h.putPreferences).Methods("PUT")
}

func (h *Handler) userID(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) <= 7 || header[:7] != "Bearer " {
		return ""
	}
	parsed, err := jwt.Parse(header[7:], func(t *jwt.Token) (any, error) {
		return h.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "notify-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	userID := h.userID(r)
	if userID == "" {
		http.Error(w, "Sign in required", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notifications, err := h.Store.ListNotifications(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID := h.userID(r)
	if userID == "" {
		http.Error(w, "Sign in required", http.StatusUnauthorized)
		return
	}

	prefs, err := h.Store.GetPreferences(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *Handler) putPreferences(w http.ResponseWriter, r *http.Request) {
	userID := h.userID(r)
	if userID == "" {
		http.Error(w, "Sign in required", http.StatusUnauthorized)
		return
	}

	var prefs domain.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Store.SetPreferences(r.Context(), userID, prefs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
