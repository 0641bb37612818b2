package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

type CategoryMemoryStorage struct {
	db *Database
}

func NewCategoryMemoryStorage(db *Database) *CategoryMemoryStorage {
	return &CategoryMemoryStorage{db: db}
}

func (s *CategoryMemoryStorage) CreateCategory(ctx context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.findBySlug(c.Slug) != nil {
		return fmt.Errorf("category with slug %s: %w", c.Slug, storage.ErrConflict)
	}

	c.ID = s.db.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.db.now()
	}
	stored := *c
	s.db.categories[c.ID] = &stored
	return nil
}

func (s *CategoryMemoryStorage) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c := s.findBySlug(slug)
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", slug, storage.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (s *CategoryMemoryStorage) GetAllCategories(ctx context.Context) ([]*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	result := make([]*models.Category, 0, len(s.db.categories))
	for _, c := range s.db.categories {
		out := *c
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (s *CategoryMemoryStorage) DeleteCategoryBySlug(ctx context.Context, slug string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c := s.findBySlug(slug)
	if c == nil {
		return fmt.Errorf("category %s: %w", slug, storage.ErrNotFound)
	}

	for _, p := range s.db.posts {
		if p.CategoryID != nil && *p.CategoryID == c.ID {
			p.CategoryID = nil
		}
	}
	delete(s.db.categories, c.ID)
	return nil
}

func (s *CategoryMemoryStorage) findBySlug(slug string) *models.Category {
	for _, c := range s.db.categories {
		if c.Slug == slug {
			return c
		}
	}
	return nil
}
