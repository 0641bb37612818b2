package user

import (
	"context"

	"github.com/VitaminP8/blogicum/models"
)

type UserStorage interface {
	RegisterUser(ctx context.Context, username, password string) (*models.User, error)
	// LoginUser проверяет логин и пароль, возвращает пользователя
	LoginUser(ctx context.Context, username, password string) (*models.User, error)
	GetUserById(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateProfile сохраняет username, имя, фамилию и email
	UpdateProfile(ctx context.Context, user *models.User) error
	// DeleteUser удаляет пользователя вместе с его постами и комментариями
	DeleteUser(ctx context.Context, id uint) error
}
