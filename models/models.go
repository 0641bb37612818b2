package models

import "time"

// DefaultMaxLength - ограничение длины коротких текстовых полей по умолчанию
const DefaultMaxLength = 256

type User struct {
	ID        uint   `gorm:"primary_key"`
	Username  string `gorm:"size:150;unique_index;not null"`
	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`
	Email     string `gorm:"size:254"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
}

func (User) TableName() string { return "users" }

// FullName возвращает имя и фамилию, а если они не заданы - username
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

type Category struct {
	ID          uint   `gorm:"primary_key"`
	Title       string `gorm:"type:text;not null"`
	Description string `gorm:"type:text"`
	Slug        string `gorm:"size:64;unique_index;not null"`
	IsPublished bool   `gorm:"not null"`
	CreatedAt   time.Time
}

func (Category) TableName() string { return "categories" }

type Location struct {
	ID          uint   `gorm:"primary_key"`
	Name        string `gorm:"type:text;not null"`
	IsPublished bool   `gorm:"not null"`
	CreatedAt   time.Time
}

func (Location) TableName() string { return "locations" }

// Post - публикация. Author, Location, Category и CommentCount заполняются
// хранилищем при чтении и не сохраняются при записи.
type Post struct {
	ID          uint      `gorm:"primary_key"`
	Title       string    `gorm:"type:text;not null"`
	Text        string    `gorm:"type:text;not null"`
	PubDate     time.Time `gorm:"not null;index"`
	Image       string
	IsPublished bool `gorm:"not null"`
	CreatedAt   time.Time
	AuthorID    uint  `gorm:"not null;index"`
	LocationID  *uint `gorm:"index"`
	CategoryID  *uint `gorm:"index"`

	Author       User      `gorm:"-"`
	Location     *Location `gorm:"-"`
	Category     *Category `gorm:"-"`
	CommentCount int       `gorm:"-"`
}

func (Post) TableName() string { return "posts" }

// IsPublic - виден ли пост всем на момент now.
// Пост без категории категорией не ограничивается.
func (p *Post) IsPublic(category *Category, now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	return category == nil || category.IsPublished
}

type Comment struct {
	ID        uint   `gorm:"primary_key"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	PostID    uint `gorm:"not null;index"`
	AuthorID  uint `gorm:"not null;index"`

	Author User `gorm:"-"`
}

func (Comment) TableName() string { return "comments" }
