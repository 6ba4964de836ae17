package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ricehub/ricehub/pkg/domain"
)

// NotificationRepository handles notification-related database operations
type NotificationRepository struct {
	db *sqlx.DB
}

// notificationSQL represents a notification row for SQL operations
type notificationSQL struct {
	ID          int64         `db:"id"`
	RecipientID int64         `db:"recipient_id"`
	SenderID    int64         `db:"sender_id"`
	Type        string        `db:"type"`
	RiceID      sql.NullInt64 `db:"rice_id"`
	Read        bool          `db:"read"`
	CreatedAt   time.Time     `db:"created_at"`

	// joined data, populated by queries
	SenderUsername string         `db:"sender_username"`
	SenderAvatar   string         `db:"sender_avatar"`
	RiceTitle      sql.NullString `db:"rice_title"`
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(database *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

// CreateNotification inserts a new notification
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	var riceID sql.NullInt64
	if n.RiceID != 0 {
		riceID = sql.NullInt64{Int64: n.RiceID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (recipient_id, sender_id, type, rice_id) VALUES (?, ?, ?, ?)",
		n.RecipientID, n.SenderID, string(n.Type), riceID)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}

	n.ID = id
	return nil
}

// GetByRecipient retrieves the recipient's notifications newest first, with
// sender and rice title populated for rendering
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID int64) ([]*domain.Notification, error) {
	query := `
		SELECT n.*, u.username AS sender_username, u.avatar AS sender_avatar,
		       r.title AS rice_title
		FROM notifications n
		JOIN users u ON u.id = n.sender_id
		LEFT JOIN rices r ON r.id = n.rice_id
		WHERE n.recipient_id = ?
		ORDER BY n.created_at DESC, n.id DESC
	`
	var sqlNotifications []notificationSQL
	if err := r.db.SelectContext(ctx, &sqlNotifications, query, recipientID); err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	notifications := make([]*domain.Notification, len(sqlNotifications))
	for i, sqlNotification := range sqlNotifications {
		notifications[i] = r.toDomainNotification(&sqlNotification)
	}
	return notifications, nil
}

// MarkAllRead marks every unread notification of the recipient as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE recipient_id = ? AND read = 0", recipientID)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// CountUnread returns the number of unread notifications for the recipient
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND read = 0", recipientID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// toDomainNotification converts notificationSQL to domain.Notification
func (r *NotificationRepository) toDomainNotification(sqlNotification *notificationSQL) *domain.Notification {
	return &domain.Notification{
		ID:          sqlNotification.ID,
		RecipientID: sqlNotification.RecipientID,
		SenderID:    sqlNotification.SenderID,
		Sender: &domain.Profile{
			ID:       sqlNotification.SenderID,
			Username: sqlNotification.SenderUsername,
			Avatar:   sqlNotification.SenderAvatar,
		},
		Type:      domain.NotificationType(sqlNotification.Type),
		RiceID:    sqlNotification.RiceID.Int64,
		RiceTitle: sqlNotification.RiceTitle.String,
		Read:      sqlNotification.Read,
		CreatedAt: sqlNotification.CreatedAt,
	}
}
