package services

import (
	"fmt"
	"time"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for create dates.
func (s *CommentService) SetClock(now func() time.Time) {
	s.now = now
}

// AddComment attaches a new, unapproved comment to the post.
func (s *CommentService) AddComment(postID int, comment *models.Comment) error {
	comment.PostID = postID
	comment.ApprovedComment = false
	comment.BeforeCreate(s.now())
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("invalid comment: %w", err)
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return fmt.Errorf("post %d: %w", postID, err)
	}
	return nil
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(id int) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("comment %d: %w", id, err)
	}
	return comment, nil
}

// ApproveComment marks the comment approved and returns it.
func (s *CommentService) ApproveComment(id int) (*models.Comment, error) {
	comment, err := s.GetComment(id)
	if err != nil {
		return nil, err
	}

	comment.Approve()
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// RemoveComment deletes the comment and returns the ID of the post it
// belonged to.
func (s *CommentService) RemoveComment(id int) (int, error) {
	comment, err := s.GetComment(id)
	if err != nil {
		return 0, err
	}

	if err := s.commentRepo.Delete(id); err != nil {
		return 0, fmt.Errorf("comment %d: %w", id, err)
	}
	return comment.PostID, nil
}

// ApprovedComments lists the post's approved comments in creation order.
func (s *CommentService) ApprovedComments(postID int) ([]*models.Comment, error) {
	return s.commentRepo.ListApprovedByPost(postID)
}
