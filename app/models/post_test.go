package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostValidation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				AuthorID:   1,
				Title:      "Hello",
				Text:       "World",
				CreateDate: now,
			},
			wantErr: false,
		},
		{
			name: "title at limit",
			post: &Post{
				AuthorID:   1,
				Title:      strings.Repeat("é", 255),
				Text:       "World",
				CreateDate: now,
			},
			wantErr: false,
		},
		{
			name: "title too long",
			post: &Post{
				AuthorID:   1,
				Title:      strings.Repeat("a", 256),
				Text:       "World",
				CreateDate: now,
			},
			wantErr: true,
		},
		{
			name: "missing author",
			post: &Post{
				Title:      "Hello",
				Text:       "World",
				CreateDate: now,
			},
			wantErr: true,
		},
		{
			name: "empty text",
			post: &Post{
				AuthorID:   1,
				Title:      "Hello",
				CreateDate: now,
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			post: &Post{
				AuthorID: 1,
				Title:    "Hello",
				Text:     "World",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	post := &Post{Title: "Test Post", Text: "Test Content"}

	assert.True(t, post.CreateDate.IsZero())
	post.BeforeCreate(now)
	assert.Equal(t, now, post.CreateDate)

	post.BeforeCreate(now.Add(time.Hour))
	assert.Equal(t, now, post.CreateDate, "existing create date is kept")
}

func TestPostPublication(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name      string
		published *time.Time
		public    bool
		draft     bool
	}{
		{name: "draft", published: nil, public: false, draft: true},
		{name: "published in the past", published: &past, public: true, draft: false},
		{name: "published now", published: &now, public: true, draft: false},
		{name: "scheduled", published: &future, public: false, draft: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &Post{PublishedDate: tt.published}
			assert.Equal(t, tt.public, post.IsPublished(now))
			assert.Equal(t, tt.draft, post.IsDraft())
		})
	}

	t.Run("publish stamps the date", func(t *testing.T) {
		post := &Post{}
		post.Publish(now)
		if assert.NotNil(t, post.PublishedDate) {
			assert.Equal(t, now, *post.PublishedDate)
		}
		assert.True(t, post.IsPublished(now))
	})
}

func TestPostCommentManagement(t *testing.T) {
	post := &Post{ID: 7, Title: "Test Post", Text: "Test Content"}

	t.Run("add comment", func(t *testing.T) {
		comment := &Comment{ID: 1, Author: "Bob", Text: "Nice post"}
		err := post.AddComment(comment)
		assert.NoError(t, err)
		assert.Len(t, post.Comments, 1)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("add nil comment", func(t *testing.T) {
		assert.Error(t, post.AddComment(nil))
	})

	t.Run("approved comments keep order", func(t *testing.T) {
		a := assert.New(t)
		post.Comments = []*Comment{
			{ID: 1, ApprovedComment: true},
			{ID: 2},
			{ID: 3, ApprovedComment: true},
		}
		approved := post.ApprovedComments()
		a.Len(approved, 2)
		a.Equal(1, approved[0].ID)
		a.Equal(3, approved[1].ID)
	})
}
