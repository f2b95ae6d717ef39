package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
)

func TestCommentService(t *testing.T) {
	posts, store, c, author := newPostService(t)
	service := NewCommentService(store.Comments())
	service.SetClock(c.Now)

	post := &models.Post{AuthorID: author.ID, Title: "Post", Text: "Body"}
	require.NoError(t, posts.CreatePost(post))

	t.Run("add comment", func(t *testing.T) {
		comment := &models.Comment{Author: "Anonymous Reader", Text: "Nice", ApprovedComment: true}
		require.NoError(t, service.AddComment(post.ID, comment))

		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, c.Now(), comment.CreateDate)
		assert.False(t, comment.ApprovedComment)

		approved, err := service.ApprovedComments(post.ID)
		require.NoError(t, err)
		assert.Empty(t, approved)
	})

	t.Run("add comment to missing post", func(t *testing.T) {
		err := service.AddComment(99, &models.Comment{Author: "x", Text: "y"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("add invalid comment", func(t *testing.T) {
		err := service.AddComment(post.ID, &models.Comment{Author: "x"})
		assert.Error(t, err)
	})

	t.Run("approve comment", func(t *testing.T) {
		comment := &models.Comment{Author: "bob", Text: "Hello"}
		require.NoError(t, service.AddComment(post.ID, comment))

		approved, err := service.ApproveComment(comment.ID)
		require.NoError(t, err)
		assert.True(t, approved.ApprovedComment)
		assert.Equal(t, post.ID, approved.PostID)

		list, err := service.ApprovedComments(post.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, comment.ID, list[0].ID)

		loaded, err := posts.GetPost(post.ID)
		require.NoError(t, err)
		assert.Len(t, loaded.Comments, 2)
		assert.Len(t, loaded.ApprovedComments(), 1)
	})

	t.Run("approve missing comment", func(t *testing.T) {
		_, err := service.ApproveComment(99)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("remove comment returns post", func(t *testing.T) {
		comment := &models.Comment{Author: "carol", Text: "Bye"}
		require.NoError(t, service.AddComment(post.ID, comment))

		postID, err := service.RemoveComment(comment.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, postID)

		_, err = service.GetComment(comment.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = service.RemoveComment(comment.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}
