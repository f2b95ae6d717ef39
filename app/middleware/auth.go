package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

type ctxKeyUser struct{}

// SessionResolver maps a session cookie value to its account.
type SessionResolver interface {
	UserForSession(token string) (*models.User, error)
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, user)
}

// CurrentUser returns the logged in account, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxKeyUser{}).(*models.User)
	return user
}

// LoadUser resolves the session cookie and stores the account in the
// request context. Requests without a usable session continue anonymously.
func LoadUser(sessions SessionResolver, cookieName string, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.UserForSession(cookie.Value)
			if err != nil {
				logger.WithField("request_id", GetRequestID(r.Context())).
					Debugf("[auth] ignoring session cookie: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireLogin redirects anonymous requests to loginURL, passing the
// requested URI as the next parameter.
func RequireLogin(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CurrentUser(r.Context()) == nil {
				target := loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
