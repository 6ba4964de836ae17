package domain

import "time"

// NotificationType is the kind of event a notification describes
type NotificationType string

// notification kinds
const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
)

// Notification is a one-directional alert from sender to recipient,
// optionally referencing the rice it is about. Created only as a
// best-effort side effect of a like or a comment.
type Notification struct {
	ID          int64            `json:"id"`
	RecipientID int64            `json:"-"`
	SenderID    int64            `json:"-"`
	Sender      *Profile         `json:"sender,omitempty"`
	Type        NotificationType `json:"type"`
	RiceID      int64            `json:"riceId,omitempty"`
	RiceTitle   string           `json:"riceTitle,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
}
