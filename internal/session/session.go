package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const Name = "blogly_session"

var ErrNoSession = errors.New("session not loaded for request")

type ctxKey struct{}

// NewStore builds the signed cookie store that carries flash notifications.
func NewStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// Middleware loads the session once per request and stores it in the
// request context. A cookie that fails to decode yields a fresh session.
func Middleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := store.Get(r, Name)
			if err != nil {
				log.Warn().Err(err).Msg("discarding unreadable session cookie")
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func from(r *http.Request) *sessions.Session {
	s, _ := r.Context().Value(ctxKey{}).(*sessions.Session)
	return s
}

// Flash queues a one-shot message for the next rendered page. It must be
// called before the response is written.
func Flash(w http.ResponseWriter, r *http.Request, msg string) error {
	s := from(r)
	if s == nil {
		return ErrNoSession
	}
	s.AddFlash(msg)
	return s.Save(r, w)
}

// Flashes consumes the queued messages; a second call returns none.
func Flashes(w http.ResponseWriter, r *http.Request) []string {
	s := from(r)
	if s == nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to save session")
	}
	return lo.FilterMap(raw, func(v any, _ int) (string, bool) {
		msg, ok := v.(string)
		return msg, ok
	})
}
