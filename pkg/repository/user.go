package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ricehub/ricehub/pkg/domain"
)

// UserRepository handles user-related database operations
type UserRepository struct {
	db *sqlx.DB
}

// userSQL represents a user row for SQL operations
type userSQL struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Avatar       string    `db:"avatar"`
	Bio          string    `db:"bio"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// NewUserRepository creates a new user repository
func NewUserRepository(database *sqlx.DB) *UserRepository {
	return &UserRepository{db: database}
}

// CreateUser inserts a new user. Returns ErrAlreadyExists when the email or
// username is taken.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.Avatar == "" {
		user.Avatar = domain.DefaultAvatar
	}

	query := `
		INSERT INTO users (username, email, password_hash, avatar, bio)
		VALUES (:username, :email, :password_hash, :avatar, :bio)
	`
	result, err := r.db.NamedExecContext(ctx, query, &userSQL{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Avatar:       user.Avatar,
		Bio:          user.Bio,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}

	user.ID = id
	return nil
}

// GetUser retrieves a user by ID
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var sqlUser userSQL
	err := r.db.GetContext(ctx, &sqlUser, "SELECT * FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return r.toDomainUser(&sqlUser), nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var sqlUser userSQL
	err := r.db.GetContext(ctx, &sqlUser, "SELECT * FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return r.toDomainUser(&sqlUser), nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var sqlUser userSQL
	err := r.db.GetContext(ctx, &sqlUser, "SELECT * FROM users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return r.toDomainUser(&sqlUser), nil
}

// UpdateProfile updates the mutable profile fields. Empty values keep the
// current ones, matching the merge semantics of the profile form.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, bio, avatar string) (*domain.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE(NULLIF(?, ''), username),
		    bio = COALESCE(NULLIF(?, ''), bio),
		    avatar = COALESCE(NULLIF(?, ''), avatar),
		    updated_at = datetime('now')
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query, username, bio, avatar, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	return r.GetUser(ctx, id)
}

// ToggleSaved flips rice membership in the user's saved collection and
// reports the new state. The delete-else-insert runs in one transaction so
// concurrent toggles cannot produce duplicates or lost updates.
func (r *UserRepository) ToggleSaved(ctx context.Context, userID, riceID int64) (saved bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle saved: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err = tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM rices WHERE id = ?)", riceID); err != nil {
		return false, fmt.Errorf("check rice exists: %w", err)
	}
	if !exists {
		return false, ErrNotFound
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM saved_rices WHERE user_id = ? AND rice_id = ?", userID, riceID)
	if err != nil {
		return false, fmt.Errorf("remove saved rice: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	if removed == 0 {
		if _, err = tx.ExecContext(ctx, "INSERT INTO saved_rices (user_id, rice_id) VALUES (?, ?)", userID, riceID); err != nil {
			return false, fmt.Errorf("save rice: %w", err)
		}
		saved = true
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle saved: %w", err)
	}
	return saved, nil
}

// SavedRiceIDs returns ids of the rices saved by the user, oldest save first
func (r *UserRepository) SavedRiceIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids,
		"SELECT rice_id FROM saved_rices WHERE user_id = ? ORDER BY created_at", userID)
	if err != nil {
		return nil, fmt.Errorf("get saved rice ids: %w", err)
	}
	return ids, nil
}

// toDomainUser converts userSQL to domain.User
func (r *UserRepository) toDomainUser(sqlUser *userSQL) *domain.User {
	return &domain.User{
		ID:           sqlUser.ID,
		Username:     sqlUser.Username,
		Email:        sqlUser.Email,
		PasswordHash: sqlUser.PasswordHash,
		Avatar:       sqlUser.Avatar,
		Bio:          sqlUser.Bio,
		CreatedAt:    sqlUser.CreatedAt,
		UpdatedAt:    sqlUser.UpdatedAt,
	}
}

// isUniqueViolation checks if an error is a SQLite unique constraint error
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
