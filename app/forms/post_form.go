package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// PostForm accepts author, title and text. Nothing else is read from the request.
type PostForm struct {
	Author string `form:"author" validate:"required"`
	Title  string `form:"title" validate:"required,max=255"`
	Text   string `form:"text" validate:"required"`

	Errors Errors `form:"-" validate:"-"`
}

// NewPostForm binds the allow-listed fields from values.
func NewPostForm(values url.Values) *PostForm {
	return &PostForm{
		Author: strings.TrimSpace(values.Get("author")),
		Title:  strings.TrimSpace(values.Get("title")),
		Text:   strings.TrimSpace(values.Get("text")),
		Errors: Errors{},
	}
}

// PostFormFor pre-fills a form from an existing post.
func PostFormFor(p *models.Post) *PostForm {
	return &PostForm{
		Author: strconv.Itoa(p.AuthorID),
		Title:  p.Title,
		Text:   p.Text,
		Errors: Errors{},
	}
}

// Valid validates the form. authorExists reports whether a user id may be
// chosen as author.
func (f *PostForm) Valid(authorExists func(id int) bool) bool {
	if f.Errors == nil {
		f.Errors = Errors{}
	}
	check(f, f.Errors)
	if !f.Errors.Has("author") {
		if id, err := strconv.Atoi(f.Author); err != nil || id <= 0 || !authorExists(id) {
			f.Errors.Add("author", invalidChoice)
		}
	}
	return !f.Errors.Any()
}

// AuthorID returns the chosen author. Only meaningful after Valid.
func (f *PostForm) AuthorID() int {
	id, _ := strconv.Atoi(f.Author)
	return id
}

// Apply copies the submitted fields onto p.
func (f *PostForm) Apply(p *models.Post) {
	p.AuthorID = f.AuthorID()
	p.Title = f.Title
	p.Text = f.Text
}
