package query

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/middleware"
	"github.com/Aanshikesh/PennyPilot/internal/models"
	"github.com/Aanshikesh/PennyPilot/internal/utils"
)

const tokenTTL = 24 * time.Hour

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

func jwtSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// UserStore resolves users from the write store. Login needs the password
// hash, so it reads the write model rather than a cached view.
type UserStore interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}

// AuthResult is returned by both login and refresh.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

// AuthQueryService verifies credentials and issues JWTs.
type AuthQueryService struct {
	users UserStore
}

func NewAuthQueryService(users UserStore) *AuthQueryService {
	return &AuthQueryService{users: users}
}

// Login verifies the email/password pair. A missing user and a wrong password
// are reported identically so the endpoint doesn't leak which emails exist.
func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (*AuthResult, error) {
	user, err := s.users.GetByEmail(cmd.Email)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}
	return s.issueToken(user)
}

// RefreshToken issues a fresh token for an already-authenticated user.
func (s *AuthQueryService) RefreshToken(cmd cqrs.RefreshTokenCommand) (*AuthResult, error) {
	user, err := s.users.GetByID(cmd.UserID)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}
	return s.issueToken(user)
}

func (s *AuthQueryService) issueToken(user *models.User) (*AuthResult, error) {
	expiresAt := time.Now().Add(tokenTTL)
	claims := &middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
	}, nil
}
