package controllers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/PrefaceCoding/BlogCloneProject/app/forms"
	"github.com/PrefaceCoding/BlogCloneProject/app/middleware"
	"github.com/PrefaceCoding/BlogCloneProject/app/models"
	"github.com/PrefaceCoding/BlogCloneProject/app/services"
	"github.com/PrefaceCoding/BlogCloneProject/app/views"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	base
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, templates views.Templates, logger logrus.FieldLogger) *PostController {
	return &PostController{
		base:        base{templates: templates, log: logger},
		postService: postService,
	}
}

// List shows the published posts, newest first
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPublished()
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, views.PostList, &views.Data{Posts: posts})
}

// Detail shows one post. Anonymous readers only see approved comments.
func (pc *PostController) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.NotFound(w, r)
		return
	}

	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	comments := post.ApprovedComments()
	if middleware.CurrentUser(r.Context()) != nil {
		comments = post.Comments
	}

	pc.render(w, r, http.StatusOK, views.PostDetail, &views.Data{
		Title:    post.Title,
		Post:     post,
		Comments: comments,
	})
}

// Create shows an empty post form and stores a valid submission
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		form := forms.NewPostForm(nil)
		if user := middleware.CurrentUser(r.Context()); user != nil {
			form.Author = strconv.Itoa(user.ID)
		}
		pc.renderForm(w, r, nil, form)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.NewPostForm(r.PostForm)
	if !form.Valid(pc.postService.AuthorExists) {
		pc.renderForm(w, r, nil, form)
		return
	}

	post := &models.Post{}
	form.Apply(post)
	if err := pc.postService.CreatePost(post); err != nil {
		pc.serverError(w, r, err)
		return
	}

	pc.log.Infof("[posts] created post %d", post.ID)
	http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
}

// Edit shows the pre-filled form and stores a valid submission. Create and
// publication dates are never taken from the request.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.NotFound(w, r)
		return
	}

	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		pc.renderForm(w, r, post, forms.PostFormFor(post))
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.NewPostForm(r.PostForm)
	if !form.Valid(pc.postService.AuthorExists) {
		pc.renderForm(w, r, post, form)
		return
	}

	form.Apply(post)
	if err := pc.postService.UpdatePost(post); err != nil {
		pc.fail(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
}

// Delete asks for confirmation and removes the post with its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.NotFound(w, r)
		return
	}

	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		pc.render(w, r, http.StatusOK, views.PostConfirmDelete, &views.Data{Title: post.Title, Post: post})
		return
	}

	if err := pc.postService.DeletePost(id); err != nil {
		pc.fail(w, r, err)
		return
	}

	pc.log.Infof("[posts] deleted post %d with %d comments", id, len(post.Comments))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Drafts lists the unpublished posts, oldest first
func (pc *PostController) Drafts(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListDrafts()
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, views.PostDraftList, &views.Data{Title: "Drafts", Posts: posts})
}

// Publish stamps the post with the current time
func (pc *PostController) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.NotFound(w, r)
		return
	}

	if _, err := pc.postService.PublishPost(id); err != nil {
		pc.fail(w, r, err)
		return
	}

	pc.log.Infof("[posts] published post %d", id)
	http.Redirect(w, r, postURL(id), http.StatusFound)
}

func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, post *models.Post, form *forms.PostForm) {
	authors, err := pc.postService.Authors()
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, views.PostForm, &views.Data{
		Post:    post,
		Authors: authors,
		Form:    form,
	})
}
