package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"swayum-canteen/order-svc/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type UserRepository interface {
	InsertUser(user *domain.User, passwordHash string) error
	GetUserByEmail(email string) (*domain.User, string, error)
	GetUserByID(id string) (*domain.User, error)
}

type ServiceInterface interface {
	SignUp(email, password, name, customerType string) (*domain.User, string, error)
	SignIn(email, password string) (*domain.User, string, error)
	Verify(token string) (string, error)
	GetUser(id string) (*domain.User, error)
}

type Service struct {
	repository UserRepository
	secret     []byte
	tokenTTL   time.Duration
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repository UserRepository, secret string) *Service {
	return &Service{
		repository: repository,
		secret:     []byte(secret),
		tokenTTL:   7 * 24 * time.Hour,
	}
}

func (s *Service) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) SignUp(email, password, name, customerType string) (*domain.User, string, error) {
	if _, _, err := s.repository.GetUserByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		CustomerType: customerType,
		CreatedAt:    time.Now(),
	}
	if err := s.repository.InsertUser(user, string(hash)); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) SignIn(email, password string) (*domain.User, string, error) {
	user, hash, err := s.repository.GetUserByEmail(email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify returns the user id carried by a valid token.
func (s *Service) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (s *Service) GetUser(id string) (*domain.User, error) {
	return s.repository.GetUserByID(id)
}

type contextKey int

const userIDKey contextKey = 0

// Middleware resolves the bearer token, if any, into a user id on the
// request context. Requests without a valid token pass through
// unauthenticated; handlers decide whether a user is required.
func Middleware(verifier interface {
	Verify(token string) (string, error)
}) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				if userID, err := verifier.Verify(strings.TrimPrefix(header, "Bearer ")); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID reports the authenticated user, or "" when the request carried no
// valid token.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
