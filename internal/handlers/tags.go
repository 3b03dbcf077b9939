package handlers

import (
	"fmt"
	"net/http"

	"github.com/petermazzocco/blogly/internal/blog"
	"github.com/petermazzocco/blogly/internal/views"
	"github.com/petermazzocco/blogly/models"
)

func ListTagsHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	tags, err := svc.ListTags()
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "tags.html", views.Page{Title: "Tags", Tags: tags})
}

func NewTagFormHandler(w http.ResponseWriter, r *http.Request, v *views.Renderer) {
	render(w, r, v, http.StatusOK, "tag_form.html", views.Page{Title: "Create a tag"})
}

func CreateTagHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	if !parseForm(w, r, v) {
		return
	}
	title := r.PostForm.Get("title")

	_, msg, err := svc.CreateTag(title)
	if err != nil {
		if text, ok := validationMessage(err); ok {
			render(w, r, v, http.StatusBadRequest, "tag_form.html", views.Page{
				Title: "Create a tag",
				Error: text,
				Tag:   models.Tag{Title: title},
			})
			return
		}
		fail(w, r, v, err)
		return
	}
	redirect(w, r, "/tags", msg)
}

func ShowTagHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	tag, err := svc.GetTag(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "tag.html", views.Page{Title: tag.Title, Tag: tag})
}

func EditTagFormHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	tag, err := svc.GetTag(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "tag_form.html", views.Page{Title: "Edit a tag", Tag: tag})
}

func UpdateTagHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	if !parseForm(w, r, v) {
		return
	}
	title := r.PostForm.Get("title")

	_, msg, err := svc.UpdateTag(id, title)
	if err != nil {
		if text, ok := validationMessage(err); ok {
			render(w, r, v, http.StatusBadRequest, "tag_form.html", views.Page{
				Title: "Edit a tag",
				Error: text,
				Tag:   models.Tag{ID: id, Title: title},
			})
			return
		}
		fail(w, r, v, err)
		return
	}
	redirect(w, r, fmt.Sprintf("/tags/%d", id), msg)
}

func DeleteTagHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	_, msg, err := svc.DeleteTag(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	redirect(w, r, "/tags", msg)
}
