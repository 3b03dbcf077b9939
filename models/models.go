package models

import (
	"time"
)

// DefaultImageURL is stored for users created or edited without a picture.
const DefaultImageURL = "https://www.pngitem.com/pimgs/m/150-1503945_transparent-user-png-default-user-image-png-png.png"

type User struct {
	ID        uint   `gorm:"primarykey"`
	FirstName string `gorm:"type:text;not null" validate:"required"`
	LastName  string `gorm:"type:text;not null" validate:"required"`
	ImageURL  string `gorm:"type:text"`
	Posts     []Post `gorm:"constraint:OnDelete:CASCADE;"`
}

// FullName is derived, never stored.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type Post struct {
	ID        uint      `gorm:"primarykey"`
	Title     string    `gorm:"type:text;not null" validate:"required"`
	Content   string    `gorm:"type:text;not null" validate:"required"`
	CreatedAt time.Time `gorm:"not null"`
	UserID    uint      `gorm:"not null;index"`
	User      *User     `json:"user,omitempty"`
	Tags      []Tag     `gorm:"many2many:posttag;constraint:OnDelete:CASCADE;"`
}

type Tag struct {
	ID    uint   `gorm:"primarykey"`
	Title string `gorm:"type:text;not null" validate:"required"`
	Posts []Post `gorm:"many2many:posttag;constraint:OnDelete:CASCADE;"`
}

// PostTag is the association row between a post and a tag. The pair is the
// primary key, so a post carries a given tag at most once.
type PostTag struct {
	PostID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}

func (PostTag) TableName() string {
	return "posttag"
}
