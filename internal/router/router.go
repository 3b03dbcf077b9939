package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"github.com/petermazzocco/blogly/internal/blog"
	"github.com/petermazzocco/blogly/internal/handlers"
	"github.com/petermazzocco/blogly/internal/session"
	"github.com/petermazzocco/blogly/internal/views"
)

// New wires the routing table. The service, renderer and session store are
// created once at startup and shared by every request.
func New(svc *blog.Service, v *views.Renderer, store sessions.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(session.Middleware(store))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.NotFoundHandler(w, r, v)
	})

	r.Get("/", handlers.HomeHandler)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			handlers.ListUsersHandler(w, r, svc, v)
		})
		r.Get("/new", func(w http.ResponseWriter, r *http.Request) {
			handlers.NewUserFormHandler(w, r, v)
		})
		r.Post("/new", func(w http.ResponseWriter, r *http.Request) {
			handlers.CreateUserHandler(w, r, svc, v)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			handlers.ShowUserHandler(w, r, svc, v)
		})
		r.Get("/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
			handlers.EditUserFormHandler(w, r, svc, v)
		})
		r.Post("/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
			handlers.UpdateUserHandler(w, r, svc, v)
		})
		r.Post("/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
			handlers.DeleteUserHandler(w, r, svc, v)
		})
		r.Get("/{id}/post-form", func(w http.ResponseWriter, r *http.Request) {
			handlers.NewPostFormHandler(w, r, svc, v)
		})
		r.Post("/{id}/post-form", func(w http.ResponseWriter, r *http.Request) {
			handlers.CreatePostHandler(w, r, svc, v)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			handlers.ShowPostHandler(w, r, svc, v)
		})
		r.Get("/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
			handlers.EditPostFormHandler(w, r, svc, v)
		})
		r.Post("/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
			handlers.UpdatePostHandler(w, r, svc, v)
		})
		r.Post("/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
			handlers.DeletePostHandler(w, r, svc, v)
		})
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			handlers.ListTagsHandler(w, r, svc, v)
		})
		r.Get("/new", func(w http.ResponseWriter, r *http.Request) {
			handlers.NewTagFormHandler(w, r, v)
		})
		r.Post("/new", func(w http.ResponseWriter, r *http.Request) {
			handlers.CreateTagHandler(w, r, svc, v)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			handlers.ShowTagHandler(w, r, svc, v)
		})
		r.Get("/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
			handlers.EditTagFormHandler(w, r, svc, v)
		})
		r.Post("/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
			handlers.UpdateTagHandler(w, r, svc, v)
		})
		r.Post("/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
			handlers.DeleteTagHandler(w, r, svc, v)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
