package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/petermazzocco/blogly/internal/database/dbtest"
	"github.com/petermazzocco/blogly/internal/store"
	"github.com/petermazzocco/blogly/models"
)

func newStore(t *testing.T) (*store.Store, *gorm.DB) {
	db := dbtest.Open(t)
	return store.New(db), db
}

func mustUser(t *testing.T, s *store.Store, first, last string) models.User {
	t.Helper()
	u := models.User{FirstName: first, LastName: last, ImageURL: models.DefaultImageURL}
	require.NoError(t, s.CreateUser(&u))
	return u
}

func mustTag(t *testing.T, s *store.Store, title string) models.Tag {
	t.Helper()
	tag := models.Tag{Title: title}
	require.NoError(t, s.CreateTag(&tag))
	return tag
}

func mustPost(t *testing.T, s *store.Store, userID uint, title string, tagIDs ...uint) models.Post {
	t.Helper()
	p := models.Post{Title: title, Content: title + " content", UserID: userID}
	require.NoError(t, s.CreatePost(&p, tagIDs))
	return p
}

func countPostTags(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.PostTag{}).Count(&n).Error)
	return n
}

func TestCreateUserAssignsIDs(t *testing.T) {
	s, _ := newStore(t)

	tom := mustUser(t, s, "Tom", "Hanks")
	chris := mustUser(t, s, "Chris", "Hemsworth")
	require.NotZero(t, tom.ID)
	require.NotEqual(t, tom.ID, chris.ID)

	got, err := s.GetUser(tom.ID)
	require.NoError(t, err)
	require.Equal(t, "Tom Hanks", got.FullName())

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Equal(t, []uint{tom.ID, chris.ID}, lo.Map(users, func(u models.User, _ int) uint { return u.ID }))
}

func TestCreateUserRequiresNames(t *testing.T) {
	s, _ := newStore(t)

	err := s.CreateUser(&models.User{FirstName: "", LastName: "Hanks"})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "first_name", verr.Field)

	err = s.CreateUser(&models.User{FirstName: "Tom"})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "last_name", verr.Field)

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s, _ := newStore(t)

	var nf *store.NotFoundError
	_, err := s.GetUser(42)
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "user", nf.Entity)
	require.Equal(t, uint(42), nf.ID)

	_, err = s.GetPost(42)
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "post", nf.Entity)

	_, err = s.GetTag(42)
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "tag", nf.Entity)
}

func TestUpdateUserOverwritesSuppliedFieldsOnly(t *testing.T) {
	s, _ := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")

	got, err := s.UpdateUser(u.ID, store.UserUpdate{LastName: lo.ToPtr("Cruise")})
	require.NoError(t, err)
	require.Equal(t, "Tom", got.FirstName)
	require.Equal(t, "Cruise", got.LastName)
	require.Equal(t, models.DefaultImageURL, got.ImageURL)

	_, err = s.UpdateUser(u.ID, store.UserUpdate{
		FirstName: lo.ToPtr("Meg"),
		LastName:  lo.ToPtr("Ryan"),
		ImageURL:  lo.ToPtr("https://example.com/meg.png"),
	})
	require.NoError(t, err)

	got, err = s.GetUser(u.ID)
	require.NoError(t, err)
	require.Equal(t, "Meg", got.FirstName)
	require.Equal(t, "Ryan", got.LastName)
	require.Equal(t, "https://example.com/meg.png", got.ImageURL)
}

func TestUpdateUserRejectsEmptyNameAtomically(t *testing.T) {
	s, _ := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")

	_, err := s.UpdateUser(u.ID, store.UserUpdate{
		FirstName: lo.ToPtr("Meg"),
		LastName:  lo.ToPtr(""),
	})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	require.Equal(t, "Tom", got.FirstName)
	require.Equal(t, "Hanks", got.LastName)

	_, err = s.UpdateUser(99, store.UserUpdate{FirstName: lo.ToPtr("x")})
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestDeleteUserCascadesToPosts(t *testing.T) {
	s, db := newStore(t)
	tom := mustUser(t, s, "Tom", "Hanks")
	chris := mustUser(t, s, "Chris", "Hemsworth")
	tag := mustTag(t, s, "movies")

	p1 := mustPost(t, s, tom.ID, "first", tag.ID)
	p2 := mustPost(t, s, tom.ID, "second", tag.ID)
	kept := mustPost(t, s, chris.ID, "kept", tag.ID)

	deleted, err := s.DeleteUser(tom.ID)
	require.NoError(t, err)
	require.Equal(t, "Tom", deleted.FirstName)

	posts, err := s.ListPosts()
	require.NoError(t, err)
	ids := lo.Map(posts, func(p models.Post, _ int) uint { return p.ID })
	require.NotContains(t, ids, p1.ID)
	require.NotContains(t, ids, p2.ID)
	require.Equal(t, []uint{kept.ID}, ids)
	require.EqualValues(t, 1, countPostTags(t, db))

	_, err = s.GetTag(tag.ID)
	require.NoError(t, err)

	var nf *store.NotFoundError
	_, err = s.DeleteUser(tom.ID)
	require.ErrorAs(t, err, &nf)
}

func TestCreatePostUnknownUserLeavesStoreUnchanged(t *testing.T) {
	s, db := newStore(t)
	tag := mustTag(t, s, "news")

	p := models.Post{Title: "orphan", Content: "nobody owns me", UserID: 7}
	err := s.CreatePost(&p, []uint{tag.ID})
	var ref *store.ReferenceError
	require.ErrorAs(t, err, &ref)
	require.Equal(t, "user", ref.Entity)
	require.Equal(t, uint(7), ref.ID)

	posts, err := s.ListPosts()
	require.NoError(t, err)
	require.Empty(t, posts)
	require.Zero(t, countPostTags(t, db))
}

func TestCreatePostRequiresTitleAndContent(t *testing.T) {
	s, _ := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")

	err := s.CreatePost(&models.Post{Content: "body", UserID: u.ID}, nil)
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "title", verr.Field)

	err = s.CreatePost(&models.Post{Title: "title", UserID: u.ID}, nil)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "content", verr.Field)
}

func TestCreatePostDropsUnknownAndDuplicateTags(t *testing.T) {
	s, db := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")
	a := mustTag(t, s, "a")
	b := mustTag(t, s, "b")

	p := mustPost(t, s, u.ID, "tagged", b.ID, a.ID, 999, a.ID)
	require.Equal(t, []uint{a.ID, b.ID}, lo.Map(p.Tags, func(tg models.Tag, _ int) uint { return tg.ID }))
	require.EqualValues(t, 2, countPostTags(t, db))

	got, err := s.GetPost(p.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 2)
	require.NotNil(t, got.User)
	require.Equal(t, "Tom Hanks", got.User.FullName())
	require.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestUpdatePostKeepsAuthorAndCreationTime(t *testing.T) {
	s, _ := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")
	p := mustPost(t, s, u.ID, "before")
	orig, err := s.GetPost(p.ID)
	require.NoError(t, err)

	got, err := s.UpdatePost(p.ID, store.PostUpdate{Title: lo.ToPtr("after"), Content: lo.ToPtr("new body")})
	require.NoError(t, err)
	require.Equal(t, "after", got.Title)
	require.Equal(t, "new body", got.Content)
	require.Equal(t, u.ID, got.UserID)
	require.True(t, orig.CreatedAt.Equal(got.CreatedAt))

	_, err = s.UpdatePost(p.ID, store.PostUpdate{Title: lo.ToPtr("")})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = s.UpdatePost(p.ID+100, store.PostUpdate{Title: lo.ToPtr("x")})
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestSetPostTagsReplacesWholeSet(t *testing.T) {
	s, db := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")
	a := mustTag(t, s, "a")
	b := mustTag(t, s, "b")
	c := mustTag(t, s, "c")
	p := mustPost(t, s, u.ID, "post", a.ID, b.ID)

	tags, err := s.SetPostTags(p.ID, []uint{c.ID, 12345})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, c.ID, tags[0].ID)

	got, err := s.GetPost(p.ID)
	require.NoError(t, err)
	require.Equal(t, []uint{c.ID}, lo.Map(got.Tags, func(tg models.Tag, _ int) uint { return tg.ID }))

	_, err = s.SetPostTags(p.ID, nil)
	require.NoError(t, err)
	require.Zero(t, countPostTags(t, db))

	_, err = s.SetPostTags(p.ID+1, []uint{a.ID})
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestDeletePostKeepsTagsAndAuthor(t *testing.T) {
	s, db := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")
	tag := mustTag(t, s, "a")
	p := mustPost(t, s, u.ID, "doomed", tag.ID)

	deleted, err := s.DeletePost(p.ID)
	require.NoError(t, err)
	require.Equal(t, "doomed", deleted.Title)
	require.Zero(t, countPostTags(t, db))

	_, err = s.GetUser(u.ID)
	require.NoError(t, err)
	got, err := s.GetTag(tag.ID)
	require.NoError(t, err)
	require.Empty(t, got.Posts)

	_, err = s.DeletePost(p.ID)
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestDeleteTagKeepsPosts(t *testing.T) {
	s, db := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")
	only := mustTag(t, s, "only")
	p := mustPost(t, s, u.ID, "survivor", only.ID)

	_, err := s.DeleteTag(only.ID)
	require.NoError(t, err)
	require.Zero(t, countPostTags(t, db))

	got, err := s.GetPost(p.ID)
	require.NoError(t, err)
	require.Empty(t, got.Tags)
	require.Equal(t, "survivor", got.Title)
	require.Equal(t, "survivor content", got.Content)
}

func TestTagsAllowDuplicateTitles(t *testing.T) {
	s, _ := newStore(t)
	a := mustTag(t, s, "go")
	b := mustTag(t, s, "go")
	require.NotEqual(t, a.ID, b.ID)

	tags, err := s.ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 2)

	err = s.CreateTag(&models.Tag{})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := s.UpdateTag(a.ID, store.TagUpdate{Title: lo.ToPtr("golang")})
	require.NoError(t, err)
	require.Equal(t, "golang", got.Title)

	_, err = s.UpdateTag(a.ID, store.TagUpdate{Title: lo.ToPtr("")})
	require.True(t, errors.As(err, &verr))
}

func TestGetTagListsTaggedPosts(t *testing.T) {
	s, _ := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")
	tag := mustTag(t, s, "a")
	p1 := mustPost(t, s, u.ID, "one", tag.ID)
	mustPost(t, s, u.ID, "untagged")
	p3 := mustPost(t, s, u.ID, "three", tag.ID)

	got, err := s.GetTag(tag.ID)
	require.NoError(t, err)
	require.Equal(t, []uint{p1.ID, p3.ID}, lo.Map(got.Posts, func(p models.Post, _ int) uint { return p.ID }))

	posts, err := s.ListUserPosts(u.ID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
}

func TestUpdatePostReplacesTagsInSameTransaction(t *testing.T) {
	s, _ := newStore(t)
	u := mustUser(t, s, "Tom", "Hanks")
	a := mustTag(t, s, "a")
	b := mustTag(t, s, "b")
	p := mustPost(t, s, u.ID, "post", a.ID)

	got, err := s.UpdatePost(p.ID, store.PostUpdate{Title: lo.ToPtr("renamed")})
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)

	got, err = s.UpdatePost(p.ID, store.PostUpdate{TagIDs: &[]uint{b.ID}})
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Title)
	require.Equal(t, []uint{b.ID}, lo.Map(got.Tags, func(tg models.Tag, _ int) uint { return tg.ID }))

	_, err = s.UpdatePost(p.ID, store.PostUpdate{Content: lo.ToPtr(""), TagIDs: &[]uint{}})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)

	after, err := s.GetPost(p.ID)
	require.NoError(t, err)
	require.Len(t, after.Tags, 1)
}
