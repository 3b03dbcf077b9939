package handlers

import (
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/petermazzocco/blogly/internal/blog"
	"github.com/petermazzocco/blogly/internal/views"
	"github.com/petermazzocco/blogly/models"
)

func checked(ids []uint) map[uint]bool {
	return lo.SliceToMap(ids, func(id uint) (uint, bool) { return id, true })
}

func tagIDs(tags []models.Tag) []uint {
	return lo.Map(tags, func(t models.Tag, _ int) uint { return t.ID })
}

func ShowPostHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	post, err := svc.GetPost(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "post.html", views.Page{Title: post.Title, Post: post})
}

func EditPostFormHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	post, err := svc.GetPost(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	tags, err := svc.ListTags()
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "post_form.html", views.Page{
		Title:   "Edit Post",
		Post:    post,
		Tags:    tags,
		Checked: checked(tagIDs(post.Tags)),
	})
}

// UpdatePostHandler replaces the tag set only when the form carries the
// tagset marker, so a client posting just title and content keeps its tags.
func UpdatePostHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	if !parseForm(w, r, v) {
		return
	}
	title, content := r.PostForm.Get("title"), r.PostForm.Get("content")
	var ids []uint
	if r.PostForm.Has("tagset") {
		ids = append([]uint{}, formTagIDs(r)...)
	}

	post, msg, err := svc.UpdatePost(id, title, content, ids)
	if err != nil {
		if text, ok := validationMessage(err); ok {
			tags, terr := svc.ListTags()
			if terr != nil {
				fail(w, r, v, terr)
				return
			}
			render(w, r, v, http.StatusBadRequest, "post_form.html", views.Page{
				Title:   "Edit Post",
				Error:   text,
				Post:    models.Post{ID: id, Title: title, Content: content},
				Tags:    tags,
				Checked: checked(ids),
			})
			return
		}
		fail(w, r, v, err)
		return
	}
	redirect(w, r, fmt.Sprintf("/posts/%d", post.ID), msg)
}

func DeletePostHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	_, msg, err := svc.DeletePost(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	redirect(w, r, "/users", msg)
}
