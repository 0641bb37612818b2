package sqlstore

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{db: db}
}

func (s *UserStorage) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	// проверка - существует ли такой пользователь
	var existUser models.User
	err := s.db.Where("username = ?", username).First(&existUser).Error
	if err == nil {
		return nil, fmt.Errorf("user with username %s: %w", username, storage.ErrConflict)
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not check username: %w", err)
	}

	hashedPassword, err := user.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: now(),
	}

	err = s.db.Create(u).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *UserStorage) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	var u models.User
	err := s.db.Where("username = ?", username).First(&u).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}

	if err := user.CheckPassword(u.Password, password); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStorage) GetUserById(ctx context.Context, id uint) (*models.User, error) {
	return s.getUser("id = ?", id)
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser("username = ?", username)
}

func (s *UserStorage) getUser(cond string, arg interface{}) (*models.User, error) {
	var u models.User
	err := s.db.Where(cond, arg).First(&u).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not get user %v: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return &u, nil
}

func (s *UserStorage) UpdateProfile(ctx context.Context, u *models.User) error {
	var count int
	err := s.db.Model(&models.User{}).
		Where("username = ? AND id <> ?", u.Username, u.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("could not check username: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("user with username %s: %w", u.Username, storage.ErrConflict)
	}

	res := s.db.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
	})
	if res.Error != nil {
		return fmt.Errorf("could not update user: %w", res.Error)
	}
	return nil
}

// DeleteUser удаляет пользователя, его посты и все комментарии к ним,
// а также комментарии пользователя к чужим постам
func (s *UserStorage) DeleteUser(ctx context.Context, id uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	steps := []struct {
		what  string
		query *gorm.DB
		model interface{}
	}{
		{"comments on user posts", tx.Where("post_id IN (SELECT id FROM posts WHERE author_id = ?)", id), &models.Comment{}},
		{"user comments", tx.Where("author_id = ?", id), &models.Comment{}},
		{"user posts", tx.Where("author_id = ?", id), &models.Post{}},
	}
	for _, step := range steps {
		if err := step.query.Delete(step.model).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("could not delete %s: %w", step.what, err)
		}
	}

	res := tx.Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("could not delete user %d: %w", id, storage.ErrNotFound)
	}

	return tx.Commit().Error
}
