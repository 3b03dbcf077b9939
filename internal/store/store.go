// Package store persists users, posts, tags and the post-tag association.
// Every mutation runs in its own transaction and cascades explicitly:
// deleting a user removes its posts, deleting a post or a tag removes its
// association rows.
package store

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/petermazzocco/blogly/models"
)

const (
	entityUser = "user"
	entityPost = "post"
	entityTag  = "tag"
)

type Store struct {
	db       *gorm.DB
	validate *validator.Validate
}

func New(db *gorm.DB) *Store {
	naming := schema.NamingStrategy{}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return naming.ColumnName("", f.Name)
	})
	return &Store{db: db, validate: v}
}

func (s *Store) check(entity string, value any) error {
	err := s.validate.Struct(value)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Entity: entity, Field: verrs[0].Field()}
	}
	return err
}

func (s *Store) required(entity, field string, value *string) error {
	if value == nil {
		return nil
	}
	if err := s.validate.Var(*value, "required"); err != nil {
		return &ValidationError{Entity: entity, Field: field}
	}
	return nil
}

func lookup(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("find %s %d: %w", entity, id, err)
}

func byID(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id")
	}
}

// Users

type UserUpdate struct {
	FirstName *string
	LastName  *string
	ImageURL  *string
}

func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser loads the user together with its posts.
func (s *Store) GetUser(id uint) (models.User, error) {
	var user models.User
	if err := s.db.Preload("Posts", byID("posts")).First(&user, id).Error; err != nil {
		return user, lookup(err, entityUser, id)
	}
	return user, nil
}

func (s *Store) CreateUser(user *models.User) error {
	if err := s.check(entityUser, user); err != nil {
		return err
	}
	if err := s.db.Omit(clause.Associations).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateUser overwrites the supplied fields only.
func (s *Store) UpdateUser(id uint, upd UserUpdate) (models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return lookup(err, entityUser, id)
		}
		if err := s.required(entityUser, "first_name", upd.FirstName); err != nil {
			return err
		}
		if err := s.required(entityUser, "last_name", upd.LastName); err != nil {
			return err
		}

		fields := map[string]any{}
		if upd.FirstName != nil {
			fields["first_name"] = *upd.FirstName
		}
		if upd.LastName != nil {
			fields["last_name"] = *upd.LastName
		}
		if upd.ImageURL != nil {
			fields["image_url"] = *upd.ImageURL
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(fields).Error; err != nil {
			return fmt.Errorf("update user %d: %w", id, err)
		}
		return tx.First(&user, id).Error
	})
	return user, err
}

// DeleteUser removes the user, its posts and their association rows.
func (s *Store) DeleteUser(id uint) (models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return lookup(err, entityUser, id)
		}
		owned := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("post_id IN (?)", owned).Delete(&models.PostTag{}).Error; err != nil {
			return fmt.Errorf("delete post tags of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("delete posts of user %d: %w", id, err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
	return user, err
}

// Posts

// PostUpdate carries the editable fields of a post. A nil TagIDs keeps the
// current tags; a non-nil one replaces them.
type PostUpdate struct {
	Title   *string
	Content *string
	TagIDs  *[]uint
}

func (s *Store) ListPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *Store) ListUserPosts(userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts of user %d: %w", userID, err)
	}
	return posts, nil
}

// GetPost loads the post with its author and tags.
func (s *Store) GetPost(id uint) (models.Post, error) {
	var post models.Post
	err := s.db.
		Preload("User").
		Preload("Tags", byID("tags")).
		First(&post, id).Error
	if err != nil {
		return post, lookup(err, entityPost, id)
	}
	return post, nil
}

// CreatePost inserts the post for an existing user and attaches the given
// tags. Unknown tag ids are dropped.
func (s *Store) CreatePost(post *models.Post, tagIDs []uint) error {
	if err := s.check(entityPost, post); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, post.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ReferenceError{Entity: entityUser, ID: post.UserID}
			}
			return fmt.Errorf("find user %d: %w", post.UserID, err)
		}
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		tags, err := replaceTags(tx, post.ID, tagIDs)
		if err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
}

// UpdatePost overwrites title, content and optionally the tag set; the
// author and creation time never change.
func (s *Store) UpdatePost(id uint, upd PostUpdate) (models.Post, error) {
	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			return lookup(err, entityPost, id)
		}
		if err := s.required(entityPost, "title", upd.Title); err != nil {
			return err
		}
		if err := s.required(entityPost, "content", upd.Content); err != nil {
			return err
		}

		fields := map[string]any{}
		if upd.Title != nil {
			fields["title"] = *upd.Title
		}
		if upd.Content != nil {
			fields["content"] = *upd.Content
		}
		if len(fields) > 0 {
			if err := tx.Model(&post).Updates(fields).Error; err != nil {
				return fmt.Errorf("update post %d: %w", id, err)
			}
		}
		if upd.TagIDs != nil {
			if _, err := replaceTags(tx, id, *upd.TagIDs); err != nil {
				return err
			}
		}
		return tx.Preload("Tags", byID("tags")).First(&post, id).Error
	})
	return post, err
}

// SetPostTags replaces the whole tag set of a post. Unknown tag ids are
// dropped and duplicates collapsed.
func (s *Store) SetPostTags(postID uint, tagIDs []uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Post{}, postID).Error; err != nil {
			return lookup(err, entityPost, postID)
		}
		var err error
		tags, err = replaceTags(tx, postID, tagIDs)
		return err
	})
	return tags, err
}

func replaceTags(tx *gorm.DB, postID uint, tagIDs []uint) ([]models.Tag, error) {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
		return nil, fmt.Errorf("clear tags of post %d: %w", postID, err)
	}

	ids := lo.Uniq(tagIDs)
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}

	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	if len(tags) == 0 {
		return []models.Tag{}, nil
	}

	rows := lo.Map(tags, func(t models.Tag, _ int) models.PostTag {
		return models.PostTag{PostID: postID, TagID: t.ID}
	})
	if err := tx.Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("tag post %d: %w", postID, err)
	}
	return tags, nil
}

// DeletePost removes the post and its association rows. Tags and the
// author are left alone.
func (s *Store) DeletePost(id uint) (models.Post, error) {
	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			return lookup(err, entityPost, id)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return fmt.Errorf("delete tags of post %d: %w", id, err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post %d: %w", id, err)
		}
		return nil
	})
	return post, err
}

// Tags

type TagUpdate struct {
	Title *string
}

func (s *Store) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// GetTag loads the tag together with the posts carrying it.
func (s *Store) GetTag(id uint) (models.Tag, error) {
	var tag models.Tag
	if err := s.db.Preload("Posts", byID("posts")).First(&tag, id).Error; err != nil {
		return tag, lookup(err, entityTag, id)
	}
	return tag, nil
}

func (s *Store) CreateTag(tag *models.Tag) error {
	if err := s.check(entityTag, tag); err != nil {
		return err
	}
	if err := s.db.Omit(clause.Associations).Create(tag).Error; err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

func (s *Store) UpdateTag(id uint, upd TagUpdate) (models.Tag, error) {
	var tag models.Tag
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return lookup(err, entityTag, id)
		}
		if err := s.required(entityTag, "title", upd.Title); err != nil {
			return err
		}
		if upd.Title == nil {
			return nil
		}
		if err := tx.Model(&tag).Update("title", *upd.Title).Error; err != nil {
			return fmt.Errorf("update tag %d: %w", id, err)
		}
		return tx.First(&tag, id).Error
	})
	return tag, err
}

// DeleteTag removes the tag and its association rows; tagged posts survive.
func (s *Store) DeleteTag(id uint) (models.Tag, error) {
	var tag models.Tag
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return lookup(err, entityTag, id)
		}
		if err := tx.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return fmt.Errorf("delete posts of tag %d: %w", id, err)
		}
		if err := tx.Delete(&tag).Error; err != nil {
			return fmt.Errorf("delete tag %d: %w", id, err)
		}
		return nil
	})
	return tag, err
}
