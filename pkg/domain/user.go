package domain

import "time"

// DefaultAvatar is used for accounts that never uploaded one.
const DefaultAvatar = "https://github.com/shadcn.png"

// User represents a registered account. PasswordHash never leaves the
// repository layer; response shaping strips it via Profile.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public projection of a user
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio,omitempty"`
}

// Profile returns the user's public projection. Email is included only
// for the account owner; callers blank it for third-party views.
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
	}
}
