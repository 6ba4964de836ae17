package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/ricehub/ricehub/pkg/domain"
)

// RiceRepository handles rice-related database operations
type RiceRepository struct {
	db *sqlx.DB
}

// riceSQL represents a rice row for SQL operations
type riceSQL struct {
	ID            int64     `db:"id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	ImageURL      string    `db:"image_url"`
	WindowManager string    `db:"window_manager"`
	Distro        string    `db:"distro"`
	Shell         string    `db:"shell"`
	DotfilesURL   string    `db:"dotfiles_url"`
	CodeSnippet   string    `db:"code_snippet"`
	AuthorID      int64     `db:"author_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`

	// joined data, populated by list queries
	AuthorUsername string `db:"author_username"`
	AuthorAvatar   string `db:"author_avatar"`
	LikesCount     int    `db:"likes_count"`
}

const riceSelect = `
	SELECT r.*, u.username AS author_username, u.avatar AS author_avatar,
	       (SELECT COUNT(*) FROM rice_likes rl WHERE rl.rice_id = r.id) AS likes_count
	FROM rices r
	JOIN users u ON u.id = r.author_id
`

// NewRiceRepository creates a new rice repository
func NewRiceRepository(database *sqlx.DB) *RiceRepository {
	return &RiceRepository{db: database}
}

// CreateRice inserts a new rice
func (r *RiceRepository) CreateRice(ctx context.Context, rice *domain.Rice) error {
	query := `
		INSERT INTO rices (
			title, description, image_url, window_manager, distro,
			shell, dotfiles_url, code_snippet, author_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if rice.Config.Shell == "" {
		rice.Config.Shell = "zsh"
	}

	result, err := r.db.ExecContext(ctx, query,
		rice.Title, rice.Description, rice.ImageURL,
		rice.Config.WindowManager, rice.Config.Distro, rice.Config.Shell,
		rice.Config.DotfilesURL, rice.Config.CodeSnippet, rice.AuthorID)
	if err != nil {
		return fmt.Errorf("create rice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}

	rice.ID = id
	return nil
}

// GetRice retrieves a rice by ID with its author and like list
func (r *RiceRepository) GetRice(ctx context.Context, id int64) (*domain.Rice, error) {
	var sqlRice riceSQL
	err := r.db.GetContext(ctx, &sqlRice, riceSelect+" WHERE r.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get rice: %w", err)
	}

	rice := r.toDomainRice(&sqlRice)
	if err := r.attachLikes(ctx, []*domain.Rice{rice}); err != nil {
		return nil, err
	}
	return rice, nil
}

// ListRices retrieves rices matching the filter, authors and like lists
// populated. Default order is newest first; filter.SortTop orders by like
// count computed at query time.
func (r *RiceRepository) ListRices(ctx context.Context, filter domain.RiceFilter) ([]*domain.Rice, error) {
	query := riceSelect
	var clauses []string
	var args []interface{}

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		clauses = append(clauses, `(r.title LIKE ? ESCAPE '\' OR r.window_manager LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if filter.WindowManager != "" {
		clauses = append(clauses, "r.window_manager = ? COLLATE NOCASE")
		args = append(args, filter.WindowManager)
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
			continue
		}
		query += " AND " + clause
	}

	if filter.SortTop {
		query += " ORDER BY likes_count DESC, r.created_at DESC, r.id DESC"
	} else {
		query += " ORDER BY r.created_at DESC, r.id DESC"
	}

	var sqlRices []riceSQL
	if err := r.db.SelectContext(ctx, &sqlRices, query, args...); err != nil {
		return nil, fmt.Errorf("list rices: %w", err)
	}

	return r.toDomainRices(ctx, sqlRices)
}

// GetRicesByAuthor retrieves the author's rices, newest first
func (r *RiceRepository) GetRicesByAuthor(ctx context.Context, authorID int64) ([]*domain.Rice, error) {
	var sqlRices []riceSQL
	err := r.db.SelectContext(ctx, &sqlRices, riceSelect+" WHERE r.author_id = ? ORDER BY r.created_at DESC, r.id DESC", authorID)
	if err != nil {
		return nil, fmt.Errorf("get rices by author: %w", err)
	}
	return r.toDomainRices(ctx, sqlRices)
}

// GetSavedRices retrieves the rices saved by the user, most recently saved first
func (r *RiceRepository) GetSavedRices(ctx context.Context, userID int64) ([]*domain.Rice, error) {
	query := riceSelect + `
		JOIN saved_rices s ON s.rice_id = r.id
		WHERE s.user_id = ?
		ORDER BY s.created_at DESC, r.id DESC
	`
	var sqlRices []riceSQL
	if err := r.db.SelectContext(ctx, &sqlRices, query, userID); err != nil {
		return nil, fmt.Errorf("get saved rices: %w", err)
	}
	return r.toDomainRices(ctx, sqlRices)
}

// ToggleLike flips the user's membership in the rice's like set and reports
// the new state together with the updated like list. The delete-else-insert
// runs in one transaction, which makes the toggle atomic; contended writes
// are retried on SQLite lock errors.
func (r *RiceRepository) ToggleLike(ctx context.Context, riceID, userID int64) (liked bool, likes []int64, err error) {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	err = retrier.Do(ctx, func() error {
		liked, likes, err = r.toggleLikeTx(ctx, riceID, userID)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: err}
		}
		return nil
	})
	if err != nil {
		var critical *criticalError
		if errors.As(err, &critical) {
			return false, nil, critical.err
		}
		return false, nil, err
	}
	return liked, likes, nil
}

func (r *RiceRepository) toggleLikeTx(ctx context.Context, riceID, userID int64) (liked bool, likes []int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, nil, fmt.Errorf("begin toggle like: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err = tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM rices WHERE id = ?)", riceID); err != nil {
		return false, nil, fmt.Errorf("check rice exists: %w", err)
	}
	if !exists {
		return false, nil, ErrNotFound
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM rice_likes WHERE rice_id = ? AND user_id = ?", riceID, userID)
	if err != nil {
		return false, nil, fmt.Errorf("remove like: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, nil, fmt.Errorf("get rows affected: %w", err)
	}

	if removed == 0 {
		if _, err = tx.ExecContext(ctx, "INSERT INTO rice_likes (rice_id, user_id) VALUES (?, ?)", riceID, userID); err != nil {
			return false, nil, fmt.Errorf("add like: %w", err)
		}
		liked = true
	}

	likes = []int64{}
	if err = tx.SelectContext(ctx, &likes,
		"SELECT user_id FROM rice_likes WHERE rice_id = ? ORDER BY created_at", riceID); err != nil {
		return false, nil, fmt.Errorf("get likes: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, nil, fmt.Errorf("commit toggle like: %w", err)
	}
	return liked, likes, nil
}

// DeleteRice removes a rice; likes, saves, comments and notifications
// referencing it go with it via cascade
func (r *RiceRepository) DeleteRice(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM rices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete rice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// toDomainRices converts rows and attaches like lists in one extra query
func (r *RiceRepository) toDomainRices(ctx context.Context, sqlRices []riceSQL) ([]*domain.Rice, error) {
	rices := make([]*domain.Rice, len(sqlRices))
	for i, sqlRice := range sqlRices {
		rices[i] = r.toDomainRice(&sqlRice)
	}
	if err := r.attachLikes(ctx, rices); err != nil {
		return nil, err
	}
	return rices, nil
}

// attachLikes populates Likes for the given rices with a single IN query
func (r *RiceRepository) attachLikes(ctx context.Context, rices []*domain.Rice) error {
	if len(rices) == 0 {
		return nil
	}

	ids := make([]int64, len(rices))
	byID := make(map[int64]*domain.Rice, len(rices))
	for i, rice := range rices {
		ids[i] = rice.ID
		byID[rice.ID] = rice
		rice.Likes = []int64{}
	}

	query, args, err := sqlx.In(
		"SELECT rice_id, user_id FROM rice_likes WHERE rice_id IN (?) ORDER BY created_at", ids)
	if err != nil {
		return fmt.Errorf("build likes query: %w", err)
	}

	var rows []struct {
		RiceID int64 `db:"rice_id"`
		UserID int64 `db:"user_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("get likes: %w", err)
	}

	for _, row := range rows {
		rice := byID[row.RiceID]
		rice.Likes = append(rice.Likes, row.UserID)
	}
	return nil
}

// toDomainRice converts riceSQL to domain.Rice
func (r *RiceRepository) toDomainRice(sqlRice *riceSQL) *domain.Rice {
	rice := &domain.Rice{
		ID:          sqlRice.ID,
		Title:       sqlRice.Title,
		Description: sqlRice.Description,
		ImageURL:    sqlRice.ImageURL,
		Config: domain.RiceConfig{
			WindowManager: sqlRice.WindowManager,
			Distro:        sqlRice.Distro,
			Shell:         sqlRice.Shell,
			DotfilesURL:   sqlRice.DotfilesURL,
			CodeSnippet:   sqlRice.CodeSnippet,
		},
		AuthorID:   sqlRice.AuthorID,
		LikesCount: sqlRice.LikesCount,
		CreatedAt:  sqlRice.CreatedAt,
		UpdatedAt:  sqlRice.UpdatedAt,
	}
	if sqlRice.AuthorUsername != "" {
		rice.Author = &domain.Profile{
			ID:       sqlRice.AuthorID,
			Username: sqlRice.AuthorUsername,
			Avatar:   sqlRice.AuthorAvatar,
		}
	}
	return rice
}
