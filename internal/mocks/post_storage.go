package mocks

import (
	"context"

	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/models"
)

type MockPostStorage struct {
	failures
	next post.PostStorage
}

func NewMockPostStorage(next post.PostStorage) *MockPostStorage {
	return &MockPostStorage{next: next}
}

func (m *MockPostStorage) CreatePost(ctx context.Context, p *models.Post) error {
	if err := m.err("CreatePost"); err != nil {
		return err
	}
	return m.next.CreatePost(ctx, p)
}

func (m *MockPostStorage) GetPostById(ctx context.Context, id uint) (*models.Post, error) {
	if err := m.err("GetPostById"); err != nil {
		return nil, err
	}
	return m.next.GetPostById(ctx, id)
}

func (m *MockPostStorage) UpdatePost(ctx context.Context, p *models.Post) error {
	if err := m.err("UpdatePost"); err != nil {
		return err
	}
	return m.next.UpdatePost(ctx, p)
}

func (m *MockPostStorage) DeletePostById(ctx context.Context, id uint) error {
	if err := m.err("DeletePostById"); err != nil {
		return err
	}
	return m.next.DeletePostById(ctx, id)
}

func (m *MockPostStorage) ListPosts(ctx context.Context, q post.Query) ([]*models.Post, int, error) {
	if err := m.err("ListPosts"); err != nil {
		return nil, 0, err
	}
	return m.next.ListPosts(ctx, q)
}
