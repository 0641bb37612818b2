package location

import (
	"context"

	"github.com/VitaminP8/blogicum/models"
)

type LocationStorage interface {
	CreateLocation(ctx context.Context, location *models.Location) error
	GetAllLocations(ctx context.Context) ([]*models.Location, error)
	// DeleteLocationById удаляет местоположение, у его постов оно становится пустым
	DeleteLocationById(ctx context.Context, id uint) error
}
