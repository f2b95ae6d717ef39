package forms

import (
	"net/url"
	"strings"
)

// LoginForm accepts username, password and the return path.
type LoginForm struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next" validate:"-"`

	Errors Errors `form:"-" validate:"-"`
}

// NewLoginForm binds the allow-listed fields from values.
func NewLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
		Next:     values.Get("next"),
		Errors:   Errors{},
	}
}

// Valid validates the form.
func (f *LoginForm) Valid() bool {
	if f.Errors == nil {
		f.Errors = Errors{}
	}
	check(f, f.Errors)
	return !f.Errors.Any()
}

// SafeNext returns Next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
