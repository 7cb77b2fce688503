package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"swayum-canteen/order-svc/internal/auth"
	"swayum-canteen/order-svc/internal/domain"
	"swayum-canteen/order-svc/internal/service"
	"swayum-canteen/order-svc/internal/tracker"

	"github.com/gorilla/mux"
)

type Handler struct {
	Menu    service.MenuServiceInterface
	Orders  service.OrderServiceInterface
	Auth    auth.ServiceInterface
	Tracker *tracker.Tracker
	QR      service.QRGenerator
}

func NewHandler(menu service.MenuServiceInterface, orders service.OrderServiceInterface, authSvc auth.ServiceInterface, trk *tracker.Tracker, qr service.QRGenerator) *Handler {
	return &Handler{Menu: menu, Orders: orders, Auth: authSvc, Tracker: trk, QR: qr}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/menu/{id}", h.getMenuItem).Methods("GET")
	r.HandleFunc("/api/timeslots", h.getTimeSlots).Methods("GET")

	r.HandleFunc("/api/auth/signup", h.signUp).Methods("POST")
	r.HandleFunc("/api/auth/signin", h.signIn).Methods("POST")
	r.HandleFunc("/api/auth/session", h.getSession).Methods("GET")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getUserOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.getOrderStatus).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.updateOrderStatus).Methods("PUT")
	r.HandleFunc("/api/orders/{id}/events", h.streamOrderStatus).Methods("GET")
	r.HandleFunc("/api/orders/{id}/collect", h.collectOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.ListItems(r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	item, err := h.Menu.GetItem(id)
	if err != nil {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) getTimeSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	interval := service.DefaultSlotInterval
	if raw := query.Get("interval"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			interval = time.Duration(minutes) * time.Minute
		}
	}

	slots := service.GenerateTimeSlots(time.Now(), query.Get("start"), query.Get("end"), interval)
	writeJSON(w, http.StatusOK, slots)
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		Name         string `json:"name"`
		CustomerType string `json:"customer_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, token, err := h.Auth.SignUp(req.Email, req.Password, req.Name, req.CustomerType)
	if errors.Is(err, auth.ErrEmailTaken) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.Auth.SignIn(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		http.Error(w, "No active session", http.StatusUnauthorized)
		return
	}

	user, err := h.Auth.GetUser(userID)
	if err != nil {
		http.Error(w, "No active session", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		// The client keeps its cart and comes back here after signing in.
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":    "sign in to place an order",
			"redirect": "/auth?return=/payment",
		})
		return
	}

	var req struct {
		Items       []domain.OrderLine `json:"items"`
		TotalAmount int                `json:"total_amount"`
		PickupTime  string             `json:"pickup_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.CreateOrder(r.Context(), userID, req.Items, req.TotalAmount, req.PickupTime)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder),
			errors.Is(err, service.ErrMissingPickupTime),
			errors.Is(err, service.ErrItemUnavailable),
			errors.Is(err, service.ErrQuantityExceedsLimit),
			errors.Is(err, service.ErrTotalMismatch):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to create order: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getUserOrders(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		http.Error(w, "Sign in required", http.StatusUnauthorized)
		return
	}

	orders, err := h.Orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// lookupOrder resolves either a numeric backend id or a SW- ref id.
func (h *Handler) lookupOrder(r *http.Request) (*domain.Order, error) {
	raw := mux.Vars(r)["id"]
	if strings.HasPrefix(raw, "SW-") {
		return h.Orders.GetOrderByRef(r.Context(), raw)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, service.ErrOrderNotFound
	}
	return h.Orders.GetOrder(r.Context(), id)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.lookupOrder(r)
	if errors.Is(err, service.ErrOrderNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	order, err := h.lookupOrder(r)
	if errors.Is(err, service.ErrOrderNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.Tracker.Status(r.Context(), order.ID))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.AdvanceStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, service.ErrUnknownStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrStatusRegression):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	// Push to live watchers right away; the kafka event follows for
	// everyone else.
	h.Tracker.Apply(order.ID, tracker.Event{
		Source:    tracker.SourceBackend,
		Stage:     order.Status,
		Collected: order.Collected,
	})

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) streamOrderStatus(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	order, err := h.lookupOrder(r)
	if errors.Is(err, service.ErrOrderNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ch, view, cancel := h.Tracker.Watch(r.Context(), order.ID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeEvent := func(v tracker.StatusView) bool {
		data, err := json.Marshal(v)
		if err != nil {
			return true
		}
		if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !writeEvent(view) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case v := <-ch:
			if !writeEvent(v) {
				return
			}
		}
	}
}

func (h *Handler) collectOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Collect(r.Context(), id, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, service.ErrIncorrectCode):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	view := h.Tracker.Apply(order.ID, tracker.Event{Source: tracker.SourceCollection})
	writeJSON(w, http.StatusOK, map[string]interface{}{"order": order, "status": view})
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	order, err := h.lookupOrder(r)
	if errors.Is(err, service.ErrOrderNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	png, err := h.QR.Generate(order.RefID)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
