package category

import (
	"context"

	"github.com/VitaminP8/blogicum/models"
)

type CategoryStorage interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetAllCategories(ctx context.Context) ([]*models.Category, error)
	// DeleteCategoryBySlug удаляет категорию, у её постов категория становится пустой
	DeleteCategoryBySlug(ctx context.Context, slug string) error
}
