package mocks

import (
	"context"

	"github.com/VitaminP8/blogicum/internal/comment"
	"github.com/VitaminP8/blogicum/models"
)

type MockCommentStorage struct {
	failures
	next comment.CommentStorage
}

func NewMockCommentStorage(next comment.CommentStorage) *MockCommentStorage {
	return &MockCommentStorage{next: next}
}

func (m *MockCommentStorage) CreateComment(ctx context.Context, c *models.Comment) error {
	if err := m.err("CreateComment"); err != nil {
		return err
	}
	return m.next.CreateComment(ctx, c)
}

func (m *MockCommentStorage) GetCommentById(ctx context.Context, id uint) (*models.Comment, error) {
	if err := m.err("GetCommentById"); err != nil {
		return nil, err
	}
	return m.next.GetCommentById(ctx, id)
}

func (m *MockCommentStorage) UpdateComment(ctx context.Context, c *models.Comment) error {
	if err := m.err("UpdateComment"); err != nil {
		return err
	}
	return m.next.UpdateComment(ctx, c)
}

func (m *MockCommentStorage) DeleteCommentById(ctx context.Context, id uint) error {
	if err := m.err("DeleteCommentById"); err != nil {
		return err
	}
	return m.next.DeleteCommentById(ctx, id)
}

func (m *MockCommentStorage) GetComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if err := m.err("GetComments"); err != nil {
		return nil, err
	}
	return m.next.GetComments(ctx, postID)
}
