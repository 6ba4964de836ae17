package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ricehub/ricehub/pkg/domain"
)

// CommentRepository handles comment-related database operations
type CommentRepository struct {
	db *sqlx.DB
}

// commentSQL represents a comment row for SQL operations
type commentSQL struct {
	ID        int64     `db:"id"`
	RiceID    int64     `db:"rice_id"`
	AuthorID  int64     `db:"author_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`

	// joined data, populated by queries
	AuthorUsername string `db:"author_username"`
	AuthorAvatar   string `db:"author_avatar"`
}

const commentSelect = `
	SELECT c.*, u.username AS author_username, u.avatar AS author_avatar
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

// NewCommentRepository creates a new comment repository
func NewCommentRepository(database *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: database}
}

// CreateComment inserts a new comment and reads it back with the author populated
func (r *CommentRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (rice_id, author_id, text) VALUES (?, ?, ?)",
		comment.RiceID, comment.AuthorID, comment.Text)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}

	created, err := r.GetComment(ctx, id)
	if err != nil {
		return err
	}
	*comment = *created
	return nil
}

// GetComment retrieves a comment by ID with its author populated
func (r *CommentRepository) GetComment(ctx context.Context, id int64) (*domain.Comment, error) {
	var sqlComment commentSQL
	err := r.db.GetContext(ctx, &sqlComment, commentSelect+" WHERE c.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return r.toDomainComment(&sqlComment), nil
}

// GetCommentsByRice retrieves the rice's comments, newest first
func (r *CommentRepository) GetCommentsByRice(ctx context.Context, riceID int64) ([]*domain.Comment, error) {
	var sqlComments []commentSQL
	err := r.db.SelectContext(ctx, &sqlComments,
		commentSelect+" WHERE c.rice_id = ? ORDER BY c.created_at DESC, c.id DESC", riceID)
	if err != nil {
		return nil, fmt.Errorf("get comments by rice: %w", err)
	}

	comments := make([]*domain.Comment, len(sqlComments))
	for i, sqlComment := range sqlComments {
		comments[i] = r.toDomainComment(&sqlComment)
	}
	return comments, nil
}

// DeleteComment removes a comment
func (r *CommentRepository) DeleteComment(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
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

// toDomainComment converts commentSQL to domain.Comment
func (r *CommentRepository) toDomainComment(sqlComment *commentSQL) *domain.Comment {
	return &domain.Comment{
		ID:       sqlComment.ID,
		RiceID:   sqlComment.RiceID,
		AuthorID: sqlComment.AuthorID,
		Author: &domain.Profile{
			ID:       sqlComment.AuthorID,
			Username: sqlComment.AuthorUsername,
			Avatar:   sqlComment.AuthorAvatar,
		},
		Text:      sqlComment.Text,
		CreatedAt: sqlComment.CreatedAt,
	}
}
