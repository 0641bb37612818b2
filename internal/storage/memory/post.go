package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

type PostMemoryStorage struct {
	db *Database
}

func NewPostMemoryStorage(db *Database) *PostMemoryStorage {
	return &PostMemoryStorage{db: db}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, p *models.Post) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[p.AuthorID]; !ok {
		return fmt.Errorf("could not create post: author %d: %w", p.AuthorID, storage.ErrNotFound)
	}

	p.ID = s.db.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.db.now()
	}
	p.PubDate = p.PubDate.UTC()
	s.db.posts[p.ID] = stripPost(p)
	return nil
}

func (s *PostMemoryStorage) GetPostById(ctx context.Context, id uint) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
	}
	return s.db.withRelated(p), nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, p *models.Post) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.posts[p.ID]
	if !ok {
		return fmt.Errorf("post %d: %w", p.ID, storage.ErrNotFound)
	}

	updated := stripPost(p)
	updated.AuthorID = existing.AuthorID
	updated.CreatedAt = existing.CreatedAt
	updated.PubDate = updated.PubDate.UTC()
	s.db.posts[p.ID] = updated
	return nil
}

func (s *PostMemoryStorage) DeletePostById(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[id]; !ok {
		return fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
	}
	s.db.deletePost(id)
	return nil
}

func (s *PostMemoryStorage) ListPosts(ctx context.Context, q post.Query) ([]*models.Post, int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var matched []*models.Post
	for _, p := range s.db.posts {
		if q.AuthorID != nil && p.AuthorID != *q.AuthorID {
			continue
		}
		if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
			continue
		}
		if q.Published && !p.IsPublic(s.db.category(p.CategoryID), q.Now) {
			continue
		}
		matched = append(matched, p)
	}

	// новые сверху, при равной дате - больший ID
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].PubDate.After(matched[j].PubDate)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if q.Limit > 0 {
		start := min(max(q.Offset, 0), total)
		end := min(start+q.Limit, total)
		matched = matched[start:end]
	}

	result := make([]*models.Post, 0, len(matched))
	for _, p := range matched {
		result = append(result, s.db.withRelated(p))
	}
	return result, total, nil
}

// stripPost копирует пост без подгруженных связей
func stripPost(p *models.Post) *models.Post {
	out := *p
	out.Author = models.User{}
	out.Category = nil
	out.Location = nil
	out.CommentCount = 0
	return &out
}

// withRelated возвращает копию поста с автором, категорией, местоположением
// и количеством комментариев. Вызывается под блокировкой.
func (d *Database) withRelated(p *models.Post) *models.Post {
	out := *p
	if u, ok := d.users[p.AuthorID]; ok {
		out.Author = *u
	}
	out.Category = d.category(p.CategoryID)
	if p.LocationID != nil {
		if l, ok := d.locations[*p.LocationID]; ok {
			loc := *l
			out.Location = &loc
		}
	}
	for _, c := range d.comments {
		if c.PostID == p.ID {
			out.CommentCount++
		}
	}
	return &out
}

func (d *Database) category(id *uint) *models.Category {
	if id == nil {
		return nil
	}
	c, ok := d.categories[*id]
	if !ok {
		return nil
	}
	out := *c
	return &out
}

// deletePost удаляет пост и его комментарии, вызывается под блокировкой
func (d *Database) deletePost(id uint) {
	for commentID, c := range d.comments {
		if c.PostID == id {
			delete(d.comments, commentID)
		}
	}
	delete(d.posts, id)
}
