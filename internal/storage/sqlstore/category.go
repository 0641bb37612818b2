package sqlstore

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
)

type CategoryStorage struct {
	db *gorm.DB
}

func NewCategoryStorage(db *gorm.DB) *CategoryStorage {
	return &CategoryStorage{db: db}
}

func (s *CategoryStorage) CreateCategory(ctx context.Context, c *models.Category) error {
	var count int
	if err := s.db.Model(&models.Category{}).Where("slug = ?", c.Slug).Count(&count).Error; err != nil {
		return fmt.Errorf("could not check slug: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category with slug %s: %w", c.Slug, storage.ErrConflict)
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("could not create category: %w", err)
	}
	return nil
}

func (s *CategoryStorage) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.Where("slug = ?", slug).First(&c).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not get category %s: %w", slug, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get category: %w", err)
	}
	return &c, nil
}

func (s *CategoryStorage) GetAllCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := s.db.Order("title ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("could not get categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryStorage) DeleteCategoryBySlug(ctx context.Context, slug string) error {
	c, err := s.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	err = tx.Model(&models.Post{}).Where("category_id = ?", c.ID).Update("category_id", gorm.Expr("NULL")).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not detach posts from category: %w", err)
	}
	if err := tx.Where("id = ?", c.ID).Delete(&models.Category{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete category: %w", err)
	}

	return tx.Commit().Error
}
