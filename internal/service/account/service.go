// Package account registers users and exchanges passwords for access tokens.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
	"marketplace/internal/domain/services"
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	IssueToken(user *models.User) (string, time.Time, error)
}

// accountService implements the AccountService interface
type accountService struct {
	userRepo repositories.UserRepository
	issuer   TokenIssuer
	cost     int
	logger   *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(userRepo repositories.UserRepository, issuer TokenIssuer, logger *slog.Logger) services.AccountService {
	return &accountService{
		userRepo: userRepo,
		issuer:   issuer,
		cost:     bcrypt.DefaultCost,
		logger:   logger,
	}
}

// Register creates a client or freelancer account. Admin accounts are only
// created out of band.
func (s *accountService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if err := s.validateRegisterRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := hashPassword(req.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		"id", user.ID,
		"role", user.Role,
	)

	return s.authResult(user)
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *accountService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login failed", "user_id", user.ID)
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}

	s.logger.Info("login succeeded", "user_id", user.ID)

	return s.authResult(user)
}

func (s *accountService) authResult(user *models.User) (*services.AuthResult, error) {
	token, expiresAt, err := s.issuer.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &services.AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// HashPassword hashes a password for accounts created outside Register,
// such as seeded admins
func HashPassword(password string) (string, error) {
	if len(password) < config.MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, config.MinPasswordLength)
	}
	return hashPassword(password, bcrypt.DefaultCost)
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// validateRegisterRequest validates a registration request
func (s *accountService) validateRegisterRequest(req *services.RegisterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, 72), // bcrypt input limit
		),
		validation.Field(&req.FullName, validation.Required, validation.Length(1, config.MaxFullNameLength)),
		validation.Field(&req.Role,
			validation.Required,
			validation.In(models.RoleClient, models.RoleFreelancer),
		),
	)
}
