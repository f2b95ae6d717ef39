package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreateDate.IsZero() {
		return errors.New("create_date cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate(now time.Time) {
	if p.CreateDate.IsZero() {
		p.CreateDate = now
	}
}

// Publish stamps the post with the given publication time.
func (p *Post) Publish(now time.Time) {
	p.PublishedDate = &now
}

// IsPublished reports whether the post is visible in the public list at now.
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishedDate != nil && !p.PublishedDate.After(now)
}

// IsDraft reports whether the post has never been published.
func (p *Post) IsDraft() bool {
	return p.PublishedDate == nil
}

// ApprovedComments returns the attached comments that passed moderation,
// keeping their stored order.
func (p *Post) ApprovedComments() []*Comment {
	var approved []*Comment
	for _, c := range p.Comments {
		if c.ApprovedComment {
			approved = append(approved, c)
		}
	}
	return approved
}

// AddComment adds a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, comment)
	return nil
}
