package cli

import (
	"errors"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/config"
	"github.com/VitaminP8/blogicum/internal/server"
	"github.com/VitaminP8/blogicum/internal/storage/memory"
	"github.com/VitaminP8/blogicum/internal/storage/sqlstore"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

var errNoDatabase = errors.New("command requires postgres or sqlite storage")

// openStores создает хранилища по конфигурации. Для базы данных схема
// обновляется сразу.
func openStores(cfg *config.Config, logger *zap.Logger) (server.Stores, func() error, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Info("using in-memory storage")
		db := memory.NewDatabase()
		return server.Stores{
			Users:      memory.NewUserMemoryStorage(db),
			Posts:      memory.NewPostMemoryStorage(db),
			Comments:   memory.NewCommentMemoryStorage(db),
			Categories: memory.NewCategoryMemoryStorage(db),
			Locations:  memory.NewLocationMemoryStorage(db),
		}, func() error { return nil }, nil
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return server.Stores{}, nil, err
	}
	if err := sqlstore.Migrate(db); err != nil {
		_ = sqlstore.CloseDB(db)
		return server.Stores{}, nil, err
	}
	return sqlStores(db), func() error { return sqlstore.CloseDB(db) }, nil
}

func openDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	if cfg.Storage == config.StorageMemory {
		return nil, errNoDatabase
	}
	db, err := sqlstore.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("could not open %s storage: %w", cfg.Storage, err)
	}
	return db, nil
}

func sqlStores(db *gorm.DB) server.Stores {
	return server.Stores{
		Users:      sqlstore.NewUserStorage(db),
		Posts:      sqlstore.NewPostStorage(db),
		Comments:   sqlstore.NewCommentStorage(db),
		Categories: sqlstore.NewCategoryStorage(db),
		Locations:  sqlstore.NewLocationStorage(db),
	}
}

// withDatabase открывает базу для административной команды, обновляет
// схему и закрывает базу после fn
func withDatabase(rt *runtime, fn func(stores server.Stores) error) error {
	db, err := openDatabase(rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer sqlstore.CloseDB(db)

	if err := sqlstore.Migrate(db); err != nil {
		return err
	}
	return fn(sqlStores(db))
}
