package repositories

import (
	"time"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	Update(post *models.Post) error
	// Delete removes the post and every comment it owns in one transaction.
	Delete(id int) error
	// ListPublished returns posts published at or before now, newest first.
	ListPublished(now time.Time) ([]*models.Post, error)
	// ListDrafts returns unpublished posts, oldest first.
	ListDrafts() ([]*models.Post, error)
	Count() (int, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	ListApprovedByPost(postID int) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id int) error
	Count() (int, error)
}

// UserRepository defines the interface for account data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	List() ([]*models.User, error)
}

// SessionRepository stores login sessions keyed by token
type SessionRepository interface {
	Create(session *models.Session) error
	Get(token string) (*models.Session, error)
	Delete(token string) error
}

// Store bundles the repositories of one storage backend.
type Store interface {
	Posts() PostRepository
	Comments() CommentRepository
	Users() UserRepository
	Sessions() SessionRepository
	Close() error
}
