package post

import (
	"context"
	"time"

	"github.com/VitaminP8/blogicum/models"
)

// Query описывает выборку постов. Фильтры со значением nil не применяются.
type Query struct {
	AuthorID   *uint
	CategoryID *uint
	// Published оставляет только посты, видимые всем на момент Now
	Published bool
	Now       time.Time
	Limit     int
	Offset    int
}

// PostStorage - хранилище постов. Все методы чтения возвращают посты
// с автором, местоположением, категорией и количеством комментариев.
type PostStorage interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostById(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePostById(ctx context.Context, id uint) error
	// ListPosts возвращает страницу постов (новые сверху) и общее количество подходящих постов
	ListPosts(ctx context.Context, q Query) ([]*models.Post, int, error)
}
