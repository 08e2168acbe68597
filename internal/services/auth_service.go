package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/config"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/dto"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// dummyHash is compared against when the username does not exist so both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("disaster-report-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt dummy hash: %v", err))
	}
	return hash
})

type AuthService struct {
	users UserStore
	cfg   *config.Config
	now   func() time.Time
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{users: users, cfg: cfg, now: time.Now}
}

// Login checks a username/password pair. Unknown usernames and wrong
// passwords produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		User:        toUserResponse(user),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := s.CreateUser(ctx, req.Username, req.Password, models.RoleUser, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// CreateUser validates and trims the username, hashes the password and
// stores a user with the given role. Every account, whether registered over
// HTTP, seeded or created from the CLI, passes the same checks.
func (s *AuthService) CreateUser(ctx context.Context, username, password, role, name string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	username = strings.TrimSpace(username)
	v := &ValidationError{}
	if n := len(username); n < minUsernameLength || n > maxUsernameLength {
		v.Add("username", "must be between 3 and 50 characters")
	}
	if n := len(password); n < minPasswordLength || n > maxPasswordLength {
		v.Add("password", "must be between 8 and 72 characters")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
		Role:     role,
		Name:     name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the seed admin account unless the username exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, name string) (bool, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		if !existing.IsAdmin() {
			slog.Warn("seed admin username belongs to a non-admin user", "username", username)
		}
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	if _, err := s.CreateUser(ctx, username, password, models.RoleAdmin, name); err != nil {
		return false, err
	}
	slog.Info("seed admin created", "username", username)
	return true, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Name:     user.Name,
	}
}
