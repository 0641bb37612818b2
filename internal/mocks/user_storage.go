package mocks

import (
	"context"

	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/models"
)

type MockUserStorage struct {
	failures
	next user.UserStorage
}

func NewMockUserStorage(next user.UserStorage) *MockUserStorage {
	return &MockUserStorage{next: next}
}

func (m *MockUserStorage) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	if err := m.err("RegisterUser"); err != nil {
		return nil, err
	}
	return m.next.RegisterUser(ctx, username, password)
}

func (m *MockUserStorage) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	if err := m.err("LoginUser"); err != nil {
		return nil, err
	}
	return m.next.LoginUser(ctx, username, password)
}

func (m *MockUserStorage) GetUserById(ctx context.Context, id uint) (*models.User, error) {
	if err := m.err("GetUserById"); err != nil {
		return nil, err
	}
	return m.next.GetUserById(ctx, id)
}

func (m *MockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := m.err("GetUserByUsername"); err != nil {
		return nil, err
	}
	return m.next.GetUserByUsername(ctx, username)
}

func (m *MockUserStorage) UpdateProfile(ctx context.Context, u *models.User) error {
	if err := m.err("UpdateProfile"); err != nil {
		return err
	}
	return m.next.UpdateProfile(ctx, u)
}

func (m *MockUserStorage) DeleteUser(ctx context.Context, id uint) error {
	if err := m.err("DeleteUser"); err != nil {
		return err
	}
	return m.next.DeleteUser(ctx, id)
}
