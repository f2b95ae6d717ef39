package forms

import (
	"net/url"
	"strings"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

// CommentForm accepts author and text.
type CommentForm struct {
	Author string `form:"author" validate:"required,max=255"`
	Text   string `form:"text" validate:"required"`

	Errors Errors `form:"-" validate:"-"`
}

// NewCommentForm binds the allow-listed fields from values.
func NewCommentForm(values url.Values) *CommentForm {
	return &CommentForm{
		Author: strings.TrimSpace(values.Get("author")),
		Text:   strings.TrimSpace(values.Get("text")),
		Errors: Errors{},
	}
}

// Valid validates the form.
func (f *CommentForm) Valid() bool {
	if f.Errors == nil {
		f.Errors = Errors{}
	}
	check(f, f.Errors)
	return !f.Errors.Any()
}

// Comment builds an unsaved comment on post.
func (f *CommentForm) Comment(post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Author: f.Author,
		Text:   f.Text,
	}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	return comment, nil
}
