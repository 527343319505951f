package sqlrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
)

const userColumns = `id, email, password_hash, full_name, avatar_url, role, created_at`

// UserRepository implements repositories.UserRepository
type UserRepository struct {
	store repositories.Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store repositories.Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts an account. Emails are stored lowercased.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)

	query := `
		INSERT INTO users (email, password_hash, full_name, avatar_url, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := r.store.QueryOne(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.AvatarURL,
		user.Role,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("email '%s' is already registered", user.Email),
				ResourceType: "user",
			}
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.store.QueryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves an account by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := scanUser(r.store.QueryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func scanUser(row repositories.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.AvatarURL,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
