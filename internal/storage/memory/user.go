package memory

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/models"
)

type UserMemoryStorage struct {
	db *Database
}

func NewUserMemoryStorage(db *Database) *UserMemoryStorage {
	return &UserMemoryStorage{db: db}
}

func (s *UserMemoryStorage) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	hashedPassword, err := user.HashPassword(password)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.findByUsername(username) != nil {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrConflict)
	}

	u := &models.User{
		ID:        s.db.id(),
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: s.db.now(),
	}
	s.db.users[u.ID] = u

	out := *u
	return &out, nil
}

func (s *UserMemoryStorage) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	s.db.mu.Lock()
	u := s.findByUsername(username)
	s.db.mu.Unlock()

	if u == nil {
		return nil, user.ErrInvalidCredentials
	}
	if err := user.CheckPassword(u.Password, password); err != nil {
		return nil, err
	}

	out := *u
	return &out, nil
}

func (s *UserMemoryStorage) GetUserById(ctx context.Context, id uint) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (s *UserMemoryStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u := s.findByUsername(username)
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (s *UserMemoryStorage) UpdateProfile(ctx context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.users[u.ID]
	if !ok {
		return fmt.Errorf("user %d: %w", u.ID, storage.ErrNotFound)
	}
	if other := s.findByUsername(u.Username); other != nil && other.ID != u.ID {
		return fmt.Errorf("user %s: %w", u.Username, storage.ErrConflict)
	}

	existing.Username = u.Username
	existing.FirstName = u.FirstName
	existing.LastName = u.LastName
	existing.Email = u.Email
	return nil
}

func (s *UserMemoryStorage) DeleteUser(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}

	for postID, p := range s.db.posts {
		if p.AuthorID == id {
			s.db.deletePost(postID)
		}
	}
	for commentID, c := range s.db.comments {
		if c.AuthorID == id {
			delete(s.db.comments, commentID)
		}
	}
	delete(s.db.users, id)
	return nil
}

func (s *UserMemoryStorage) findByUsername(username string) *models.User {
	for _, u := range s.db.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
