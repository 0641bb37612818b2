package sqlstore

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
)

type CommentStorage struct {
	db *gorm.DB
}

func NewCommentStorage(db *gorm.DB) *CommentStorage {
	return &CommentStorage{db: db}
}

func (s *CommentStorage) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}

	err := s.db.Create(c).Error
	if err != nil {
		return fmt.Errorf("could not create comment: %w", err)
	}
	return nil
}

func (s *CommentStorage) GetCommentById(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	err := s.db.Where("id = ?", id).First(&c).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not get comment by id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get comment by id: %w", err)
	}

	if err := withAuthors(s.db, []*models.Comment{&c}); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CommentStorage) UpdateComment(ctx context.Context, c *models.Comment) error {
	err := s.db.Model(&models.Comment{}).Where("id = ?", c.ID).Update("text", c.Text).Error
	if err != nil {
		return fmt.Errorf("could not update comment: %w", err)
	}
	return nil
}

func (s *CommentStorage) DeleteCommentById(ctx context.Context, id uint) error {
	res := s.db.Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return fmt.Errorf("could not delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("could not delete comment %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *CommentStorage) GetComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}

	if err := withAuthors(s.db, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func withAuthors(db *gorm.DB, comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}

	var users []models.User
	if err := db.Where("id IN (?)", ids).Find(&users).Error; err != nil {
		return fmt.Errorf("could not get comment authors: %w", err)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, c := range comments {
		c.Author = byID[c.AuthorID]
	}
	return nil
}
