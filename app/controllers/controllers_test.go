package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/PrefaceCoding/BlogCloneProject/app/middleware"
	"github.com/PrefaceCoding/BlogCloneProject/app/models"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories/mock"
	"github.com/PrefaceCoding/BlogCloneProject/app/services"
	"github.com/PrefaceCoding/BlogCloneProject/app/views"
)

type fixture struct {
	store    *mock.Store
	posts    *services.PostService
	comments *services.CommentService
	auth     *services.AuthService
	author   *models.User

	postController    *PostController
	commentController *CommentController
	authController    *AuthController
	pageController    *PageController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	templates := views.MustLoad()
	store := mock.NewStore()

	f := &fixture{
		store:    store,
		posts:    services.NewPostService(store.Posts(), store.Comments(), store.Users()),
		comments: services.NewCommentService(store.Comments()),
		auth:     services.NewAuthService(store.Users(), store.Sessions(), time.Hour, bcrypt.MinCost),
	}

	author, err := f.auth.CreateUser("alice", "s3cret")
	require.NoError(t, err)
	f.author = author

	f.postController = NewPostController(f.posts, templates, logger)
	f.commentController = NewCommentController(f.comments, f.posts, templates, logger)
	f.authController = NewAuthController(f.auth, SessionCookie{Name: "sessionid"}, templates, logger)
	f.pageController = NewPageController(templates, logger)
	return f
}

func (f *fixture) createPost(t *testing.T, title string, publish bool) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: f.author.ID, Title: title, Text: title + " text"}
	require.NoError(t, f.posts.CreatePost(post))
	if publish {
		_, err := f.posts.PublishPost(post.ID)
		require.NoError(t, err)
	}
	return post
}

func (f *fixture) addComment(t *testing.T, post *models.Post, author string, approve bool) *models.Comment {
	t.Helper()
	comment := &models.Comment{Author: author, Text: "comment from " + author}
	require.NoError(t, f.comments.AddComment(post.ID, comment))
	if approve {
		_, err := f.comments.ApproveComment(comment.ID)
		require.NoError(t, err)
	}
	return comment
}

// request builds a request with route variables and an optional logged in user.
func request(method, target string, form url.Values, vars map[string]string, user *models.User) *http.Request {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
