package services

import (
	"fmt"
	"time"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	now         func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, userRepo repositories.UserRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for create and publish dates.
func (s *PostService) SetClock(now func() time.Time) {
	s.now = now
}

// CreatePost validates and stores a new post. CreateDate defaults to now.
func (s *PostService) CreatePost(post *models.Post) error {
	post.BeforeCreate(s.now())
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	if _, err := s.userRepo.GetByID(post.AuthorID); err != nil {
		return fmt.Errorf("author %d: %w", post.AuthorID, err)
	}

	return s.postRepo.Create(post)
}

// GetPost retrieves a post by ID with its author and all of its comments
func (s *PostService) GetPost(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}

	comments, err := s.commentRepo.ListByPost(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	for _, c := range comments {
		if err := post.AddComment(c); err != nil {
			return nil, err
		}
	}

	// A missing author leaves Author nil rather than hiding the post.
	if author, err := s.userRepo.GetByID(post.AuthorID); err == nil {
		post.Author = author
	}

	return post, nil
}

// UpdatePost saves edited fields. The stored create and publish dates win
// over whatever the caller supplies.
func (s *PostService) UpdatePost(post *models.Post) error {
	existing, err := s.postRepo.GetByID(post.ID)
	if err != nil {
		return fmt.Errorf("post %d: %w", post.ID, err)
	}

	post.CreateDate = existing.CreateDate
	post.PublishedDate = existing.PublishedDate

	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}
	if _, err := s.userRepo.GetByID(post.AuthorID); err != nil {
		return fmt.Errorf("author %d: %w", post.AuthorID, err)
	}

	return s.postRepo.Update(post)
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(id int) error {
	if err := s.postRepo.Delete(id); err != nil {
		return fmt.Errorf("post %d: %w", id, err)
	}
	return nil
}

// PublishPost stamps the post with the current time and persists it.
// Publishing an already published post moves its date to now.
func (s *PostService) PublishPost(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}

	post.Publish(s.now())
	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPublished returns the posts visible now, newest first.
func (s *PostService) ListPublished() ([]*models.Post, error) {
	return s.withAuthors(s.postRepo.ListPublished(s.now()))
}

// ListDrafts returns unpublished posts, oldest first.
func (s *PostService) ListDrafts() ([]*models.Post, error) {
	return s.withAuthors(s.postRepo.ListDrafts())
}

// Authors lists the accounts a post may be attributed to.
func (s *PostService) Authors() ([]*models.User, error) {
	return s.userRepo.List()
}

// AuthorExists reports whether id names a stored account.
func (s *PostService) AuthorExists(id int) bool {
	_, err := s.userRepo.GetByID(id)
	return err == nil
}

func (s *PostService) withAuthors(posts []*models.Post, err error) ([]*models.Post, error) {
	if err != nil {
		return nil, err
	}

	authors := make(map[int]*models.User)
	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			author, _ = s.userRepo.GetByID(post.AuthorID)
			authors[post.AuthorID] = author
		}
		post.Author = author
	}
	return posts, nil
}
