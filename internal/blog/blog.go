// Package blog holds the lifecycle operations behind every page: each call
// normalizes its input, runs one store transaction and returns the
// confirmation shown to the user on the next page.
package blog

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/petermazzocco/blogly/internal/store"
	"github.com/petermazzocco/blogly/models"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

func imageOrDefault(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return models.DefaultImageURL
	}
	return url
}

func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}

// Users

func (s *Service) ListUsers() ([]models.User, error) {
	return s.store.ListUsers()
}

func (s *Service) GetUser(id uint) (models.User, error) {
	return s.store.GetUser(id)
}

func (s *Service) CreateUser(first, last, imageURL string) (models.User, string, error) {
	user := models.User{
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
		ImageURL:  imageOrDefault(imageURL),
	}
	if err := s.store.CreateUser(&user); err != nil {
		return user, "", err
	}
	log.Debug().Uint("user", user.ID).Msg("user created")
	return user, fmt.Sprintf("User '%s' added.", user.FullName()), nil
}

func (s *Service) UpdateUser(id uint, first, last, imageURL string) (models.User, string, error) {
	user, err := s.store.UpdateUser(id, store.UserUpdate{
		FirstName: trimmed(first),
		LastName:  trimmed(last),
		ImageURL:  trimmed(imageOrDefault(imageURL)),
	})
	if err != nil {
		return user, "", err
	}
	return user, fmt.Sprintf("User '%s' edited.", user.FullName()), nil
}

func (s *Service) DeleteUser(id uint) (models.User, string, error) {
	user, err := s.store.DeleteUser(id)
	if err != nil {
		return user, "", err
	}
	log.Debug().Uint("user", id).Msg("user deleted with its posts")
	return user, fmt.Sprintf("User '%s' deleted.", user.FullName()), nil
}

// Posts

func (s *Service) ListPosts() ([]models.Post, error) {
	return s.store.ListPosts()
}

func (s *Service) GetPost(id uint) (models.Post, error) {
	return s.store.GetPost(id)
}

func (s *Service) CreatePost(userID uint, title, content string, tagIDs []uint) (models.Post, string, error) {
	post := models.Post{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
		UserID:  userID,
	}
	if err := s.store.CreatePost(&post, tagIDs); err != nil {
		return post, "", err
	}
	return post, fmt.Sprintf("Post '%s' added.", post.Title), nil
}

// UpdatePost rewrites title and content. A nil tagIDs leaves the tags alone,
// anything else becomes the new tag set.
func (s *Service) UpdatePost(id uint, title, content string, tagIDs []uint) (models.Post, string, error) {
	upd := store.PostUpdate{
		Title:   trimmed(title),
		Content: trimmed(content),
	}
	if tagIDs != nil {
		upd.TagIDs = &tagIDs
	}
	post, err := s.store.UpdatePost(id, upd)
	if err != nil {
		return post, "", err
	}
	return post, fmt.Sprintf("Post '%s' edited.", post.Title), nil
}

func (s *Service) DeletePost(id uint) (models.Post, string, error) {
	post, err := s.store.DeletePost(id)
	if err != nil {
		return post, "", err
	}
	return post, fmt.Sprintf("Post '%s' deleted.", post.Title), nil
}

// Tags

func (s *Service) ListTags() ([]models.Tag, error) {
	return s.store.ListTags()
}

func (s *Service) GetTag(id uint) (models.Tag, error) {
	return s.store.GetTag(id)
}

func (s *Service) CreateTag(title string) (models.Tag, string, error) {
	tag := models.Tag{Title: strings.TrimSpace(title)}
	if err := s.store.CreateTag(&tag); err != nil {
		return tag, "", err
	}
	return tag, fmt.Sprintf("Tag '%s' added.", tag.Title), nil
}

func (s *Service) UpdateTag(id uint, title string) (models.Tag, string, error) {
	tag, err := s.store.UpdateTag(id, store.TagUpdate{Title: trimmed(title)})
	if err != nil {
		return tag, "", err
	}
	return tag, fmt.Sprintf("Tag '%s' edited.", tag.Title), nil
}

func (s *Service) DeleteTag(id uint) (models.Tag, string, error) {
	tag, err := s.store.DeleteTag(id)
	if err != nil {
		return tag, "", err
	}
	return tag, fmt.Sprintf("Tag '%s' deleted.", tag.Title), nil
}
