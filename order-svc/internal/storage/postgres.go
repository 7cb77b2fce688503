package storage

import (
	"database/sql"
	"fmt"

	"swayum-canteen/order-svc/internal/domain"
)

// EnsureSchema creates the tables the service owns.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price INTEGER NOT NULL,
			image_url TEXT,
			category TEXT,
			is_vegetarian BOOLEAN DEFAULT FALSE,
			available BOOLEAN DEFAULT TRUE,
			max_quantity INTEGER DEFAULT 4,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			name TEXT,
			customer_type TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			ref_id TEXT UNIQUE NOT NULL,
			user_id TEXT REFERENCES users(id),
			total_amount INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'received',
			pickup_time TEXT,
			order_code TEXT,
			collected BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INTEGER REFERENCES orders(id),
			item_id INTEGER,
			item_name TEXT NOT NULL,
			price INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuColumns = `id, name, COALESCE(description, ''), price, COALESCE(image_url, ''),
	COALESCE(category, ''), COALESCE(is_vegetarian, FALSE), COALESCE(available, TRUE),
	COALESCE(max_quantity, 4), created_at`

func (r *MenuRepository) ListItems(category string) ([]domain.MenuItem, error) {
	query := "SELECT " + menuColumns + " FROM menu_items"
	args := []interface{}{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
			&item.Category, &item.IsVegetarian, &item.Available, &item.MaxQuantity, &item.CreatedAt)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *MenuRepository) GetItem(id int) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.db.QueryRow("SELECT "+menuColumns+" FROM menu_items WHERE id = $1", id).
		Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
			&item.Category, &item.IsVegetarian, &item.Available, &item.MaxQuantity, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// InsertOrder writes the header and the denormalized line items in one
// transaction. On error nothing is persisted.
func (r *OrderRepository) InsertOrder(order *domain.Order) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO orders (ref_id, user_id, total_amount, status, pickup_time, order_code, collected)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id, created_at
	`, order.RefID, order.UserID, order.TotalAmount, order.Status.String(), order.PickupTime, order.OrderCode).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, item_id, item_name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, order.ID, item.ItemID, item.ItemName, item.Price, item.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

const orderColumns = `id, ref_id, COALESCE(user_id, ''), total_amount, status,
	COALESCE(pickup_time, ''), COALESCE(order_code, ''), COALESCE(collected, FALSE), created_at`

func (r *OrderRepository) scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	var rawStatus string
	err := row.Scan(&order.ID, &order.RefID, &order.UserID, &order.TotalAmount, &rawStatus,
		&order.PickupTime, &order.OrderCode, &order.Collected, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	order.Status, _ = domain.ParseStage(rawStatus)
	return &order, nil
}

func (r *OrderRepository) loadItems(order *domain.Order) error {
	rows, err := r.db.Query(`
		SELECT item_id, item_name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []domain.OrderLine{}
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ItemID, &line.ItemName, &line.Price, &line.Quantity); err != nil {
			continue
		}
		order.Items = append(order.Items, line)
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(id int) (*domain.Order, error) {
	order, err := r.scanOrder(r.db.QueryRow("SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetOrderByRefID(refID string) (*domain.Order, error) {
	order, err := r.scanOrder(r.db.QueryRow("SELECT "+orderColumns+" FROM orders WHERE ref_id = $1", refID))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) ListOrdersByUser(userID string) ([]domain.Order, error) {
	rows, err := r.db.Query("SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		var rawStatus string
		err := rows.Scan(&order.ID, &order.RefID, &order.UserID, &order.TotalAmount, &rawStatus,
			&order.PickupTime, &order.OrderCode, &order.Collected, &order.CreatedAt)
		if err != nil {
			continue
		}
		order.Status, _ = domain.ParseStage(rawStatus)
		orders = append(orders, order)
	}
	return orders, nil
}

// UpdateStatus sets the raw status string and reports the previous one.
func (r *OrderRepository) UpdateStatus(id int, status string) (string, error) {
	var oldStatus string
	err := r.db.QueryRow(`
		UPDATE orders SET status = $1 WHERE id = $2
		RETURNING (SELECT status FROM orders WHERE id = $2)
	`, status, id).Scan(&oldStatus)
	if err != nil {
		return "", err
	}
	return oldStatus, nil
}

// MarkCollected flips the order to completed+collected. Returns false when
// the order was already collected, so callers can keep side effects
// single-shot.
func (r *OrderRepository) MarkCollected(id int) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE orders SET status = 'completed', collected = TRUE
		WHERE id = $1 AND collected = FALSE
	`, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) InsertUser(user *domain.User, passwordHash string) error {
	return r.db.QueryRow(`
		INSERT INTO users (id, email, password_hash, name, customer_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, user.ID, user.Email, passwordHash, user.Name, user.CustomerType).Scan(&user.CreatedAt)
}

func (r *UserRepository) GetUserByEmail(email string) (*domain.User, string, error) {
	var user domain.User
	var hash string
	err := r.db.QueryRow(`
		SELECT id, email, password_hash, COALESCE(name, ''), COALESCE(customer_type, ''), created_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &hash, &user.Name, &user.CustomerType, &user.CreatedAt)
	if err != nil {
		return nil, "", err
	}
	return &user, hash, nil
}

func (r *UserRepository) GetUserByID(id string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRow(`
		SELECT id, email, COALESCE(name, ''), COALESCE(customer_type, ''), created_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Name, &user.CustomerType, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
