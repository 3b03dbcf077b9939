package handlers

import (
	"fmt"
	"net/http"

	"github.com/petermazzocco/blogly/internal/blog"
	"github.com/petermazzocco/blogly/internal/views"
	"github.com/petermazzocco/blogly/models"
)

func ListUsersHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	users, err := svc.ListUsers()
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "users.html", views.Page{Title: "Users", Users: users})
}

func NewUserFormHandler(w http.ResponseWriter, r *http.Request, v *views.Renderer) {
	render(w, r, v, http.StatusOK, "user_form.html", views.Page{Title: "Create a user"})
}

func CreateUserHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	if !parseForm(w, r, v) {
		return
	}
	first, last, image := r.PostForm.Get("fname"), r.PostForm.Get("lname"), r.PostForm.Get("iurl")

	_, msg, err := svc.CreateUser(first, last, image)
	if err != nil {
		if text, ok := validationMessage(err); ok {
			render(w, r, v, http.StatusBadRequest, "user_form.html", views.Page{
				Title: "Create a user",
				Error: text,
				User:  models.User{FirstName: first, LastName: last, ImageURL: image},
			})
			return
		}
		fail(w, r, v, err)
		return
	}
	redirect(w, r, "/users", msg)
}

func ShowUserHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	user, err := svc.GetUser(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "user.html", views.Page{Title: user.FullName(), User: user})
}

func EditUserFormHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	user, err := svc.GetUser(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "user_form.html", views.Page{Title: "Edit a user", User: user})
}

func UpdateUserHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	if !parseForm(w, r, v) {
		return
	}
	first, last, image := r.PostForm.Get("fname"), r.PostForm.Get("lname"), r.PostForm.Get("iurl")

	_, msg, err := svc.UpdateUser(id, first, last, image)
	if err != nil {
		if text, ok := validationMessage(err); ok {
			render(w, r, v, http.StatusBadRequest, "user_form.html", views.Page{
				Title: "Edit a user",
				Error: text,
				User:  models.User{ID: id, FirstName: first, LastName: last, ImageURL: image},
			})
			return
		}
		fail(w, r, v, err)
		return
	}
	redirect(w, r, fmt.Sprintf("/users/%d", id), msg)
}

func DeleteUserHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	_, msg, err := svc.DeleteUser(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	redirect(w, r, "/users", msg)
}

func NewPostFormHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	user, err := svc.GetUser(id)
	if err != nil {
		fail(w, r, v, err)
		return
	}
	tags, err := svc.ListTags()
	if err != nil {
		fail(w, r, v, err)
		return
	}
	render(w, r, v, http.StatusOK, "post_form.html", views.Page{Title: "Add Post", User: user, Tags: tags})
}

func CreatePostHandler(w http.ResponseWriter, r *http.Request, svc *blog.Service, v *views.Renderer) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, v)
		return
	}
	if !parseForm(w, r, v) {
		return
	}
	title, content, tagIDs := r.PostForm.Get("title"), r.PostForm.Get("content"), formTagIDs(r)

	_, msg, err := svc.CreatePost(id, title, content, tagIDs)
	if err != nil {
		if text, ok := validationMessage(err); ok {
			user, uerr := svc.GetUser(id)
			if uerr != nil {
				fail(w, r, v, uerr)
				return
			}
			tags, terr := svc.ListTags()
			if terr != nil {
				fail(w, r, v, terr)
				return
			}
			render(w, r, v, http.StatusBadRequest, "post_form.html", views.Page{
				Title:   "Add Post",
				Error:   text,
				User:    user,
				Post:    models.Post{Title: title, Content: content},
				Tags:    tags,
				Checked: checked(tagIDs),
			})
			return
		}
		fail(w, r, v, err)
		return
	}
	redirect(w, r, fmt.Sprintf("/users/%d", id), msg)
}
