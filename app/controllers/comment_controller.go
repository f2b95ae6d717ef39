package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/PrefaceCoding/BlogCloneProject/app/forms"
	"github.com/PrefaceCoding/BlogCloneProject/app/services"
	"github.com/PrefaceCoding/BlogCloneProject/app/views"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	base
	commentService *services.CommentService
	postService    *services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, postService *services.PostService, templates views.Templates, logger logrus.FieldLogger) *CommentController {
	return &CommentController{
		base:           base{templates: templates, log: logger},
		commentService: commentService,
		postService:    postService,
	}
}

// Add shows the comment form for a post and stores a valid submission
func (cc *CommentController) Add(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		cc.NotFound(w, r)
		return
	}

	post, err := cc.postService.GetPost(postID)
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		cc.render(w, r, http.StatusOK, views.CommentForm, &views.Data{Post: post, Form: forms.NewCommentForm(nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.NewCommentForm(r.PostForm)
	if !form.Valid() {
		cc.render(w, r, http.StatusOK, views.CommentForm, &views.Data{Post: post, Form: form})
		return
	}

	comment, err := form.Comment(post)
	if err != nil {
		cc.serverError(w, r, err)
		return
	}
	if err := cc.commentService.AddComment(postID, comment); err != nil {
		cc.fail(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
}

// Approve marks a comment approved and returns to its post
func (cc *CommentController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		cc.NotFound(w, r)
		return
	}

	comment, err := cc.commentService.ApproveComment(id)
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	cc.log.Infof("[comments] approved comment %d on post %d", id, comment.PostID)
	http.Redirect(w, r, postURL(comment.PostID), http.StatusFound)
}

// Remove deletes a comment and returns to the post it belonged to
func (cc *CommentController) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		cc.NotFound(w, r)
		return
	}

	postID, err := cc.commentService.RemoveComment(id)
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	cc.log.Infof("[comments] removed comment %d from post %d", id, postID)
	http.Redirect(w, r, postURL(postID), http.StatusFound)
}
