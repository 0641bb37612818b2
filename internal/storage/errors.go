package storage

import "errors"

var (
	// ErrNotFound - запрошенная запись не существует
	ErrNotFound = errors.New("not found")
	// ErrConflict - уникальное значение (username, slug) уже занято
	ErrConflict = errors.New("already exists")
)
