package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/PrefaceCoding/BlogCloneProject/app/views"
)

// PageController serves static pages
type PageController struct {
	base
}

// NewPageController creates a new PageController
func NewPageController(templates views.Templates, logger logrus.FieldLogger) *PageController {
	return &PageController{base: base{templates: templates, log: logger}}
}

// About renders the about page
func (pc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, views.About, &views.Data{Title: "About"})
}
