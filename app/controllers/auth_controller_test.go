package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
)

func TestAuthControllerLogin(t *testing.T) {
	f := newFixture(t)

	t.Run("form carries next", func(t *testing.T) {
		w := serve(f.authController.Login, request(http.MethodGet, "/accounts/login/?next=%2Fdrafts%2F", nil, nil, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="next" value="/drafts/"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		form := url.Values{"username": {"alice"}, "password": {"wrong"}}
		w := serve(f.authController.Login, request(http.MethodPost, "/accounts/login/", form, nil, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")
		assert.Empty(t, w.Result().Cookies())
	})

	tests := []struct {
		name     string
		next     string
		location string
	}{
		{"redirects to next", "/drafts/", "/drafts/"},
		{"defaults to root", "", "/"},
		{"refuses external next", "https://evil.example/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"username": {"alice"}, "password": {"s3cret"}, "next": {tt.next}}
			w := serve(f.authController.Login, request(http.MethodPost, "/accounts/login/", form, nil, nil))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "sessionid", cookies[0].Name)
			assert.True(t, cookies[0].HttpOnly)
			assert.Equal(t, 3600, cookies[0].MaxAge)

			user, err := f.auth.UserForSession(cookies[0].Value)
			require.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
		})
	}
}

func TestAuthControllerLogout(t *testing.T) {
	f := newFixture(t)
	session, _, err := f.auth.Login("alice", "s3cret")
	require.NoError(t, err)

	req := request(http.MethodGet, "/accounts/logout/", nil, nil, nil)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: session.Token})
	w := serve(f.authController.Logout, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	_, err = f.store.Sessions().Get(session.Token)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPageControllerAbout(t *testing.T) {
	f := newFixture(t)
	w := serve(f.pageController.About, request(http.MethodGet, "/about/", nil, nil, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "About")
}
