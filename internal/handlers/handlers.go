package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/petermazzocco/blogly/internal/session"
	"github.com/petermazzocco/blogly/internal/store"
	"github.com/petermazzocco/blogly/internal/views"
)

// pathID reads the {id} route parameter. A value that is not a positive
// integer cannot name an entity, so callers answer 404.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// formTagIDs collects the repeated "tags" field, skipping values that are
// not ids.
func formTagIDs(r *http.Request) []uint {
	return lo.FilterMap(r.PostForm["tags"], func(v string, _ int) (uint, bool) {
		id, err := strconv.ParseUint(v, 10, 64)
		return uint(id), err == nil
	})
}

func render(w http.ResponseWriter, r *http.Request, v *views.Renderer, status int, name string, page views.Page) {
	page.Flashes = session.Flashes(w, r)
	if err := v.Render(w, status, name, page); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

// redirect queues msg for the next page and sends the browser on.
func redirect(w http.ResponseWriter, r *http.Request, url, msg string) {
	if msg != "" {
		if err := session.Flash(w, r, msg); err != nil {
			log.Error().Err(err).Msg("Failed to save flash message")
		}
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func notFound(w http.ResponseWriter, r *http.Request, v *views.Renderer) {
	render(w, r, v, http.StatusNotFound, "error.html", views.Page{Title: "Not Found"})
}

// fail maps a store error to its response. Missing entities, including a
// missing owner referenced from the path, are 404s.
func fail(w http.ResponseWriter, r *http.Request, v *views.Renderer, err error) {
	var nf *store.NotFoundError
	var ref *store.ReferenceError
	switch {
	case errors.As(err, &nf), errors.As(err, &ref):
		notFound(w, r, v)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		render(w, r, v, http.StatusInternalServerError, "error.html", views.Page{Title: "Something went wrong"})
	}
}

func validationMessage(err error) (string, bool) {
	var verr *store.ValidationError
	if !errors.As(err, &verr) {
		return "", false
	}
	return "Please fill in every field: " + verr.Error() + ".", true
}

func parseForm(w http.ResponseWriter, r *http.Request, v *views.Renderer) bool {
	if err := r.ParseForm(); err != nil {
		render(w, r, v, http.StatusBadRequest, "error.html", views.Page{Title: "Bad Request", Error: err.Error()})
		return false
	}
	return true
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request, v *views.Renderer) {
	notFound(w, r, v)
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/users", http.StatusFound)
}
