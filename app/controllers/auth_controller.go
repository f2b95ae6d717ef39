package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PrefaceCoding/BlogCloneProject/app/forms"
	"github.com/PrefaceCoding/BlogCloneProject/app/services"
	"github.com/PrefaceCoding/BlogCloneProject/app/views"
)

const invalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// SessionCookie describes the cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthController handles login and logout
type AuthController struct {
	base
	authService *services.AuthService
	cookie      SessionCookie
	// Redirect targets after login (when no next is given) and logout.
	loginRedirect  string
	logoutRedirect string
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookie SessionCookie, templates views.Templates, logger logrus.FieldLogger) *AuthController {
	return &AuthController{
		base:           base{templates: templates, log: logger},
		authService:    authService,
		cookie:         cookie,
		loginRedirect:  "/",
		logoutRedirect: "/",
	}
}

// Login shows the login form and opens a session for valid credentials
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		form := forms.NewLoginForm(nil)
		form.Next = r.URL.Query().Get("next")
		ac.render(w, r, http.StatusOK, views.Login, &views.Data{Title: "Log in", Form: form})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.NewLoginForm(r.PostForm)
	if !form.Valid() {
		ac.render(w, r, http.StatusOK, views.Login, &views.Data{Title: "Log in", Form: form})
		return
	}

	session, user, err := ac.authService.Login(form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		ac.log.Warnf("[auth] failed login for %q", form.Username)
		form.Errors.Add(forms.NonField, invalidLogin)
		ac.render(w, r, http.StatusOK, views.Login, &views.Data{Title: "Log in", Form: form})
		return
	}
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(ac.authService.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   ac.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	ac.log.Infof("[auth] %s logged in", user.Username)
	http.Redirect(w, r, forms.SafeNext(form.Next, ac.loginRedirect), http.StatusSeeOther)
}

// Logout ends the session and expires the cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(ac.cookie.Name); err == nil && cookie.Value != "" {
		if err := ac.authService.Logout(cookie.Value); err != nil {
			ac.serverError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ac.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, ac.logoutRedirect, http.StatusFound)
}
