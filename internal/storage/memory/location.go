package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

type LocationMemoryStorage struct {
	db *Database
}

func NewLocationMemoryStorage(db *Database) *LocationMemoryStorage {
	return &LocationMemoryStorage{db: db}
}

func (s *LocationMemoryStorage) CreateLocation(ctx context.Context, l *models.Location) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	l.ID = s.db.id()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.db.now()
	}
	stored := *l
	s.db.locations[l.ID] = &stored
	return nil
}

func (s *LocationMemoryStorage) GetAllLocations(ctx context.Context) ([]*models.Location, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	result := make([]*models.Location, 0, len(s.db.locations))
	for _, l := range s.db.locations {
		out := *l
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *LocationMemoryStorage) DeleteLocationById(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.locations[id]; !ok {
		return fmt.Errorf("location %d: %w", id, storage.ErrNotFound)
	}
	for _, p := range s.db.posts {
		if p.LocationID != nil && *p.LocationID == id {
			p.LocationID = nil
		}
	}
	delete(s.db.locations, id)
	return nil
}
