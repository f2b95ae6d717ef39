package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/PrefaceCoding/BlogCloneProject/app/controllers"
	"github.com/PrefaceCoding/BlogCloneProject/app/middleware"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
	"github.com/PrefaceCoding/BlogCloneProject/app/services"
	"github.com/PrefaceCoding/BlogCloneProject/app/views"
)

// LoginURL is where the login guard sends anonymous writers.
const LoginURL = "/accounts/login/"

// Options wires the router to its store and session settings.
type Options struct {
	Store        repositories.Store
	Logger       logrus.FieldLogger
	SessionTTL   time.Duration
	BcryptCost   int
	CookieName   string
	SecureCookie bool
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(opts Options) (*mux.Router, error) {
	templates, err := views.Load()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.CookieName == "" {
		opts.CookieName = "sessionid"
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 14 * 24 * time.Hour
	}

	store := opts.Store
	postService := services.NewPostService(store.Posts(), store.Comments(), store.Users())
	commentService := services.NewCommentService(store.Comments())
	authService := services.NewAuthService(store.Users(), store.Sessions(), opts.SessionTTL, opts.BcryptCost)

	postController := controllers.NewPostController(postService, templates, opts.Logger)
	commentController := controllers.NewCommentController(commentService, postService, templates, opts.Logger)
	authController := controllers.NewAuthController(authService,
		controllers.SessionCookie{Name: opts.CookieName, Secure: opts.SecureCookie}, templates, opts.Logger)
	pageController := controllers.NewPageController(templates, opts.Logger)

	router := mux.NewRouter().StrictSlash(true)

	// Apply global middleware
	chain := []mux.MiddlewareFunc{
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		middleware.Recoverer(opts.Logger),
		middleware.LoadUser(authService, opts.CookieName, opts.Logger),
	}
	router.Use(chain...)

	// mux skips Use middleware for unmatched paths, so the 404 handler is
	// wrapped by hand in the same order.
	var notFound http.Handler = http.HandlerFunc(postController.NotFound)
	for i := len(chain) - 1; i >= 0; i-- {
		notFound = chain[i](notFound)
	}
	router.NotFoundHandler = notFound

	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", views.Static()))

	// Public routes
	router.HandleFunc("/", postController.List).Methods(http.MethodGet)
	router.HandleFunc("/about/", pageController.About).Methods(http.MethodGet)
	router.HandleFunc("/post/{id:[0-9]+}/", postController.Detail).Methods(http.MethodGet)
	router.HandleFunc(LoginURL, authController.Login).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/accounts/logout/", authController.Logout).Methods(http.MethodGet, http.MethodPost)

	// Write routes, all behind the same login guard
	guard := middleware.RequireLogin(LoginURL)
	protected := []struct {
		path    string
		handler http.HandlerFunc
		methods []string
	}{
		{"/post/new/", postController.Create, []string{http.MethodGet, http.MethodPost}},
		{"/post/{id:[0-9]+}/edit/", postController.Edit, []string{http.MethodGet, http.MethodPost}},
		{"/post/{id:[0-9]+}/remove/", postController.Delete, []string{http.MethodGet, http.MethodPost}},
		{"/drafts/", postController.Drafts, []string{http.MethodGet}},
		{"/post/{id:[0-9]+}/publish/", postController.Publish, []string{http.MethodGet}},
		{"/post/{id:[0-9]+}/comment/", commentController.Add, []string{http.MethodGet, http.MethodPost}},
		{"/comment/{id:[0-9]+}/approve/", commentController.Approve, []string{http.MethodGet}},
		{"/comment/{id:[0-9]+}/remove/", commentController.Remove, []string{http.MethodGet}},
	}
	for _, route := range protected {
		router.Handle(route.path, guard(route.handler)).Methods(route.methods...)
	}

	return router, nil
}
