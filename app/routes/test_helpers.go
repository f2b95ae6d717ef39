package routes

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
	"github.com/PrefaceCoding/BlogCloneProject/app/services"
)

type testApp struct {
	t      *testing.T
	store  repositories.Store
	server *httptest.Server
	client *http.Client
	user   *models.User
	logs   *test.Hook
}

func setupTestStore(t *testing.T, driver string) repositories.Store {
	t.Helper()
	path := ""
	if driver == repositories.DriverSQLite {
		path = filepath.Join(t.TempDir(), "blog.db")
	}
	store, err := repositories.Open(driver, path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// newTestApp serves the full router over a fresh store with one account,
// alice / s3cret. The client keeps cookies and does not follow redirects.
func newTestApp(t *testing.T, driver string) *testApp {
	t.Helper()
	store := setupTestStore(t, driver)
	logger, hook := test.NewNullLogger()

	auth := services.NewAuthService(store.Users(), store.Sessions(), time.Hour, bcrypt.MinCost)
	user, err := auth.CreateUser("alice", "s3cret")
	require.NoError(t, err)

	router, err := SetupRoutes(Options{
		Store:      store,
		Logger:     logger,
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		t:      t,
		store:  store,
		server: server,
		user:   user,
		logs:   hook,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (a *testApp) get(path string) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(a.t, err)
	return resp, readBody(a.t, resp)
}

func (a *testApp) post(path string, form url.Values) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	require.NoError(a.t, err)
	return resp, readBody(a.t, resp)
}

func (a *testApp) login() {
	a.t.Helper()
	resp, _ := a.post(LoginURL, url.Values{"username": {"alice"}, "password": {"s3cret"}})
	require.Equal(a.t, http.StatusSeeOther, resp.StatusCode)
}

func (a *testApp) logout() {
	a.t.Helper()
	resp, _ := a.get("/accounts/logout/")
	require.Equal(a.t, http.StatusFound, resp.StatusCode)
}

func (a *testApp) counts() (posts, comments int) {
	a.t.Helper()
	posts, err := a.store.Posts().Count()
	require.NoError(a.t, err)
	comments, err = a.store.Comments().Count()
	require.NoError(a.t, err)
	return posts, comments
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func location(resp *http.Response) string {
	return resp.Header.Get("Location")
}

var drivers = []string{repositories.DriverBadger, repositories.DriverSQLite}

func longTitle() string {
	return strings.Repeat("x", 256)
}
