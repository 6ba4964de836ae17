package domain

import "time"

// Rice represents a posted desktop screenshot with its setup metadata
type Rice struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"imageUrl"`
	Config      RiceConfig `json:"config"`
	AuthorID    int64      `json:"-"`
	Author      *Profile   `json:"author,omitempty"`
	Likes       []int64    `json:"likes"`
	LikesCount  int        `json:"likesCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RiceConfig holds the structured setup details used for filtering
type RiceConfig struct {
	WindowManager string `json:"windowManager"`
	Distro        string `json:"distro"`
	Shell         string `json:"shell,omitempty"`
	DotfilesURL   string `json:"dotfilesUrl,omitempty"`
	CodeSnippet   string `json:"codeSnippet,omitempty"`
}

// RiceFilter represents listing criteria for the feed
type RiceFilter struct {
	Search        string
	WindowManager string
	SortTop       bool // order by like count instead of recency
}

// Comment represents a comment on a rice
type Comment struct {
	ID        int64     `json:"id"`
	RiceID    int64     `json:"riceId"`
	AuthorID  int64     `json:"-"`
	Author    *Profile  `json:"author,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
