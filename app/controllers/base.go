package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/PrefaceCoding/BlogCloneProject/app/middleware"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
	"github.com/PrefaceCoding/BlogCloneProject/app/views"
)

// base carries what every controller needs to answer a request.
type base struct {
	templates views.Templates
	log       logrus.FieldLogger
}

func (b base) render(w http.ResponseWriter, r *http.Request, status int, page string, data *views.Data) {
	if data == nil {
		data = &views.Data{}
	}
	data.User = middleware.CurrentUser(r.Context())

	if err := b.templates.Render(w, status, page, data); err != nil {
		b.serverError(w, r, err)
	}
}

// NotFound renders the 404 page. It doubles as the router's NotFoundHandler.
func (b base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusNotFound, views.NotFound, &views.Data{Title: "Not Found"})
}

func (b base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	b.log.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": middleware.GetRequestID(r.Context()),
	}).Errorf("[controllers] %v", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// fail maps a service error onto a response.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		b.NotFound(w, r)
		return
	}
	b.serverError(w, r, err)
}

// pathID parses a numeric route variable. ok is false for anything that
// cannot name a stored record.
func pathID(r *http.Request, name string) (id int, ok bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func postURL(id int) string {
	return "/post/" + strconv.Itoa(id) + "/"
}
