package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
)

type PostStorage struct {
	db *gorm.DB
}

func NewPostStorage(db *gorm.DB) *PostStorage {
	return &PostStorage{db: db}
}

func (s *PostStorage) CreatePost(ctx context.Context, p *models.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	p.PubDate = p.PubDate.UTC()

	err := s.db.Create(p).Error
	if err != nil {
		return fmt.Errorf("could not create post: %w", err)
	}
	return nil
}

func (s *PostStorage) GetPostById(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := s.db.Where("id = ?", id).First(&p).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not get post by id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	if err := withRelated(s.db, []*models.Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, p *models.Post) error {
	res := s.db.Model(&models.Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"title":        p.Title,
		"text":         p.Text,
		"pub_date":     p.PubDate.UTC(),
		"image":        p.Image,
		"is_published": p.IsPublished,
		"location_id":  p.LocationID,
		"category_id":  p.CategoryID,
	})
	if res.Error != nil {
		return fmt.Errorf("could not update post: %w", res.Error)
	}
	return nil
}

// DeletePostById удаляет пост вместе с комментариями
func (s *PostStorage) DeletePostById(ctx context.Context, id uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete post comments: %w", err)
	}

	res := tx.Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("could not delete post %d: %w", id, storage.ErrNotFound)
	}

	return tx.Commit().Error
}

func (s *PostStorage) ListPosts(ctx context.Context, q post.Query) ([]*models.Post, int, error) {
	query := s.db.Model(&models.Post{})
	if q.AuthorID != nil {
		query = query.Where("posts.author_id = ?", *q.AuthorID)
	}
	if q.CategoryID != nil {
		query = query.Where("posts.category_id = ?", *q.CategoryID)
	}
	if q.Published {
		query = published(query, q.Now)
	}

	var total int
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("could not count posts: %w", err)
	}

	page := query.Order("posts.pub_date DESC").Order("posts.id DESC")
	if q.Limit > 0 {
		page = page.Limit(q.Limit).Offset(max(q.Offset, 0))
	}

	var posts []*models.Post
	if err := page.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("could not get posts: %w", err)
	}

	if err := withRelated(s.db, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// published оставляет посты, которые видны всем: опубликован сам пост,
// его категория (если она есть) и дата публикации уже наступила
func published(query *gorm.DB, at time.Time) *gorm.DB {
	return query.
		Where("posts.is_published = ? AND posts.pub_date <= ?", true, at.UTC()).
		Where("posts.category_id IS NULL OR posts.category_id IN (SELECT id FROM categories WHERE is_published = ?)", true)
}

type commentCount struct {
	PostID uint
	Total  int
}

// withRelated подгружает авторов, категории, местоположения и количество
// комментариев для списка постов: по одному запросу на каждую связь
func withRelated(db *gorm.DB, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	var postIDs, authorIDs, categoryIDs, locationIDs []uint
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.AuthorID)
		if p.CategoryID != nil {
			categoryIDs = append(categoryIDs, *p.CategoryID)
		}
		if p.LocationID != nil {
			locationIDs = append(locationIDs, *p.LocationID)
		}
	}

	var users []models.User
	if err := db.Where("id IN (?)", authorIDs).Find(&users).Error; err != nil {
		return fmt.Errorf("could not get post authors: %w", err)
	}
	usersByID := make(map[uint]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	categoriesByID := make(map[uint]*models.Category)
	if len(categoryIDs) > 0 {
		var categories []*models.Category
		if err := db.Where("id IN (?)", categoryIDs).Find(&categories).Error; err != nil {
			return fmt.Errorf("could not get post categories: %w", err)
		}
		for _, c := range categories {
			categoriesByID[c.ID] = c
		}
	}

	locationsByID := make(map[uint]*models.Location)
	if len(locationIDs) > 0 {
		var locations []*models.Location
		if err := db.Where("id IN (?)", locationIDs).Find(&locations).Error; err != nil {
			return fmt.Errorf("could not get post locations: %w", err)
		}
		for _, l := range locations {
			locationsByID[l.ID] = l
		}
	}

	var counts []commentCount
	err := db.Table("comments").
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN (?)", postIDs).
		Group("post_id").
		Scan(&counts).Error
	if err != nil {
		return fmt.Errorf("could not count comments: %w", err)
	}
	countsByPost := make(map[uint]int, len(counts))
	for _, c := range counts {
		countsByPost[c.PostID] = c.Total
	}

	for _, p := range posts {
		p.Author = usersByID[p.AuthorID]
		if p.CategoryID != nil {
			p.Category = categoriesByID[*p.CategoryID]
		}
		if p.LocationID != nil {
			p.Location = locationsByID[*p.LocationID]
		}
		p.CommentCount = countsByPost[p.ID]
	}
	return nil
}
