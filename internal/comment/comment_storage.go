package comment

import (
	"context"

	"github.com/VitaminP8/blogicum/models"
)

type CommentStorage interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentById(ctx context.Context, id uint) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteCommentById(ctx context.Context, id uint) error
	// GetComments возвращает комментарии к посту по возрастанию даты, вместе с авторами
	GetComments(ctx context.Context, postID uint) ([]*models.Comment, error)
}
