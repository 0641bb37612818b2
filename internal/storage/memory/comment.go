package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

type CommentMemoryStorage struct {
	db *Database
}

func NewCommentMemoryStorage(db *Database) *CommentMemoryStorage {
	return &CommentMemoryStorage{db: db}
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, c *models.Comment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[c.PostID]; !ok {
		return fmt.Errorf("post with ID %d: %w", c.PostID, storage.ErrNotFound)
	}
	if _, ok := s.db.users[c.AuthorID]; !ok {
		return fmt.Errorf("author with ID %d: %w", c.AuthorID, storage.ErrNotFound)
	}

	c.ID = s.db.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.db.now()
	}
	stored := *c
	stored.Author = models.User{}
	s.db.comments[c.ID] = &stored
	return nil
}

func (s *CommentMemoryStorage) GetCommentById(ctx context.Context, id uint) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c, ok := s.db.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, storage.ErrNotFound)
	}
	return s.db.withAuthor(c), nil
}

func (s *CommentMemoryStorage) UpdateComment(ctx context.Context, c *models.Comment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.comments[c.ID]
	if !ok {
		return fmt.Errorf("comment %d: %w", c.ID, storage.ErrNotFound)
	}
	existing.Text = c.Text
	return nil
}

func (s *CommentMemoryStorage) DeleteCommentById(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.comments[id]; !ok {
		return fmt.Errorf("comment %d: %w", id, storage.ErrNotFound)
	}
	delete(s.db.comments, id)
	return nil
}

func (s *CommentMemoryStorage) GetComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var result []*models.Comment
	for _, c := range s.db.comments {
		if c.PostID == postID {
			result = append(result, s.db.withAuthor(c))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (d *Database) withAuthor(c *models.Comment) *models.Comment {
	out := *c
	if u, ok := d.users[c.AuthorID]; ok {
		out.Author = *u
	}
	return &out
}
