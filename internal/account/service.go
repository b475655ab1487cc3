// Package account registers users and verifies their credentials.
package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"laundry-service-backend/config"
	"laundry-service-backend/internal/codegen"
	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
)

const invalidCredentials = "Invalid credentials"

// maxCreateAttempts bounds retries when a generated code loses an insert race.
const maxCreateAttempts = 3

// RegisterRequest is the input of Register. Phone is optional.
type RegisterRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role"`
	Phone    string     `json:"phone"`
}

// LoginResult carries the authenticated user and, when a signing secret is
// configured, a bearer token.
type LoginResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// Service handles registration and login.
type Service struct {
	store     store.Store
	generator *codegen.Generator
	cfg       config.AuthConfig

	mu       sync.Mutex
	failures *cache.Cache
	now      func() time.Time
}

func NewService(s store.Store, generator *codegen.Generator, cfg config.AuthConfig) *Service {
	lockout := time.Duration(cfg.LockoutMinutes) * time.Minute
	return &Service{
		store:     s,
		generator: generator,
		cfg:       cfg,
		failures:  cache.New(lockout, 2*lockout),
		now:       time.Now,
	}
}

// Register creates an account. Customers and employees get a generated code.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Email == "" || req.Password == "" || req.FullName == "" || req.Role == "" {
		return nil, errs.NewValidationError("", "Missing required fields")
	}
	if !req.Role.Valid() {
		return nil, errs.NewValidationError("role", "Invalid role")
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, errs.NewConflictError("Email already registered")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		Phone:        req.Phone,
	}

	format, hasCode := codeFormat(req.Role)
	for attempt := 1; ; attempt++ {
		if hasCode {
			code, err := s.generator.Generate(ctx, format, s.store.UserCodeExists)
			if err != nil {
				return nil, err
			}
			user.Code = &code
		}

		err := s.store.CreateUser(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, errs.ErrConflict) {
			return nil, err
		}

		// The unique index fired: either the email or the generated code
		// was taken by a concurrent registration.
		if _, lookupErr := s.store.GetUserByEmail(ctx, req.Email); lookupErr == nil {
			return nil, errs.NewConflictErrorWithCause("Email already registered", err)
		} else if !errors.Is(lookupErr, errs.ErrNotFound) {
			return nil, lookupErr
		}
		if !hasCode || attempt >= maxCreateAttempts {
			return nil, errs.NewConflictErrorWithCause("User code already taken, please retry", err)
		}
	}
}

// Login verifies the password hash. Repeated failures lock the email out
// for the configured window.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errs.NewValidationError("", "Email and password are required")
	}

	if s.locked(email) {
		return nil, fmt.Errorf("login for %s: %w", email, errs.ErrTooManyAttempts)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		s.fail(email)
		return nil, fmt.Errorf("%s: %w", invalidCredentials, errs.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.fail(email)
		return nil, fmt.Errorf("%s: %w", invalidCredentials, errs.ErrUnauthorized)
	}

	s.failures.Delete(email)

	result := &LoginResult{User: user}
	if s.cfg.JWTSecret != "" {
		token, err := s.issueToken(user)
		if err != nil {
			return nil, err
		}
		result.Token = token
	}
	return result, nil
}

// List returns users, newest first. An empty role lists everyone.
func (s *Service) List(ctx context.Context, role model.Role) ([]model.User, error) {
	if role != "" && !role.Valid() {
		return nil, errs.NewValidationError("role", "Invalid role")
	}
	return s.store.ListUsers(ctx, role)
}

// TokensEnabled reports whether Login issues tokens.
func (s *Service) TokensEnabled() bool {
	return s.cfg.JWTSecret != ""
}

// ParseToken validates a token issued by Login and returns its claims.
func (s *Service) ParseToken(tokenString string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", errors.Join(errs.ErrUnauthorized, err))
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", errs.ErrUnauthorized)
	}
	return claims, nil
}

func (s *Service) issueToken(user *model.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"code": user.CodeString(),
		"iat":  now.Unix(),
		"exp":  now.Add(time.Duration(s.cfg.TokenTTLMinutes) * time.Minute).Unix(),
	})

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("error while generating token: %w", err)
	}
	return signed, nil
}

func (s *Service) locked(email string) bool {
	if s.cfg.MaxLoginAttempts <= 0 {
		return false
	}
	n, found := s.failures.Get(email)
	return found && n.(int) >= s.cfg.MaxLoginAttempts
}

func (s *Service) fail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.failures.IncrementInt(email, 1); err != nil {
		s.failures.Set(email, 1, cache.DefaultExpiration)
	}
}

func (s *Service) bcryptCost() int {
	if s.cfg.BcryptCost >= bcrypt.MinCost && s.cfg.BcryptCost <= bcrypt.MaxCost {
		return s.cfg.BcryptCost
	}
	return bcrypt.DefaultCost
}

func codeFormat(role model.Role) (codegen.Format, bool) {
	switch role {
	case model.RoleCustomer:
		return codegen.CustomerCode, true
	case model.RoleEmployee:
		return codegen.EmployeeCode, true
	}
	return codegen.Format{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
