package sqlstore

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
)

type LocationStorage struct {
	db *gorm.DB
}

func NewLocationStorage(db *gorm.DB) *LocationStorage {
	return &LocationStorage{db: db}
}

func (s *LocationStorage) CreateLocation(ctx context.Context, l *models.Location) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now()
	}
	if err := s.db.Create(l).Error; err != nil {
		return fmt.Errorf("could not create location: %w", err)
	}
	return nil
}

func (s *LocationStorage) GetAllLocations(ctx context.Context) ([]*models.Location, error) {
	var locations []*models.Location
	if err := s.db.Order("name ASC").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("could not get locations: %w", err)
	}
	return locations, nil
}

func (s *LocationStorage) DeleteLocationById(ctx context.Context, id uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	err := tx.Model(&models.Post{}).Where("location_id = ?", id).Update("location_id", gorm.Expr("NULL")).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not detach posts from location: %w", err)
	}

	res := tx.Where("id = ?", id).Delete(&models.Location{})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete location: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("could not delete location %d: %w", id, storage.ErrNotFound)
	}

	return tx.Commit().Error
}
