package models

import "time"

// Post represents a blog post. A post without a PublishedDate is a draft.
type Post struct {
	ID            int        `json:"id" validate:"gte=0"`
	AuthorID      int        `json:"author_id" validate:"required,gt=0"`
	Title         string     `json:"title" validate:"required,max=255"`
	Text          string     `json:"text" validate:"required"`
	CreateDate    time.Time  `json:"create_date" validate:"required"`
	PublishedDate *time.Time `json:"published_date,omitempty"`

	Author   *User      `json:"-" validate:"-"`
	Comments []*Comment `json:"-" validate:"-"`
}

// Comment represents a reader comment on a blog post. Author is free text,
// not a reference to a user account.
type Comment struct {
	ID              int       `json:"id" validate:"gte=0"`
	PostID          int       `json:"post_id" validate:"required,gt=0"`
	Author          string    `json:"author" validate:"required,max=255"`
	Text            string    `json:"text" validate:"required"`
	CreateDate      time.Time `json:"create_date" validate:"required"`
	ApprovedComment bool      `json:"approved_comment"`
}

// User is an account allowed to write.
type User struct {
	ID           int       `json:"id" validate:"gte=0"`
	Username     string    `json:"username" validate:"required,max=150"`
	PasswordHash string    `json:"password_hash" validate:"required"`
	CreatedAt    time.Time `json:"created_at" validate:"required"`
}

// Session binds an opaque cookie token to a user until ExpiresAt.
type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
