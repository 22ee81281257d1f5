package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid username or password")
	ErrUserInactive         = errors.New("user account is deactivated")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	// SeedAdmin creates the bootstrap admin when no admin exists yet.
	SeedAdmin(ctx context.Context, username, password string) (created bool, err error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Login authenticates by username (case-insensitive) and returns a signed JWT.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if !s.checkPassword(ctx, user, password) {
		return "", nil, ErrAuthenticationFailed
	}
	if !user.IsActive {
		return "", nil, ErrUserInactive
	}

	token, err := s.generateJWT(user)
	if err != nil {
		log.Error("failed to sign token", "user", user.ID, "error", err)
		return "", nil, ErrTokenGeneration
	}
	return token, user, nil
}

// checkPassword verifies password against the stored hash. Accounts that still
// carry a plaintext password are accepted once and upgraded to a hash.
func (s *authService) checkPassword(ctx context.Context, user *domain.User, password string) bool {
	if user.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	}
	if user.LegacyPassword == "" ||
		subtle.ConstantTimeCompare([]byte(user.LegacyPassword), []byte(password)) != 1 {
		return false
	}

	hash, err := hashPassword(password)
	if err != nil {
		log.Warn("could not upgrade legacy password", "user", user.ID, "error", err)
		return true
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		log.Warn("could not store upgraded password", "user", user.ID, "error", err)
		return true
	}
	user.PasswordHash = hash
	user.LegacyPassword = ""
	log.Info("upgraded legacy plaintext password", "user", user.ID)
	return true
}

// SeedAdmin is a best-effort bootstrap. It does nothing if any admin exists.
func (s *authService) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	admins, err := s.userRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: seed username and password are required", ErrValidationFailed)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, ErrUserAlreadyExists
		}
		return false, err
	}
	return true, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID int64       `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fitness-planner",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
