package sqlstore

import (
	"fmt"
	"time"

	"github.com/VitaminP8/blogicum/internal/config"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"go.uber.org/zap"
)

// Open подключается к базе, выбранной в конфигурации (postgres или sqlite)
func Open(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	var dialect, dsn string
	switch cfg.Storage {
	case config.StoragePostgres:
		dialect, dsn = "postgres", cfg.PostgresDSN()
	case config.StorageSQLite:
		dialect, dsn = "sqlite3", cfg.Database.Path
	default:
		return nil, fmt.Errorf("storage %q is not backed by a database", cfg.Storage)
	}

	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	if dialect == "sqlite3" {
		prepareSQLite(db)
	}

	db.SetLogger(gormLogger{log: logger.Named("gorm")})
	db.LogMode(cfg.Debug)

	logger.Info("successfully connected to the database", zap.String("dialect", dialect))
	return db, nil
}

// prepareSQLite - у sqlite одно соединение, иначе каждое соединение
// к ":memory:" получает свою пустую базу
func prepareSQLite(db *gorm.DB) {
	db.DB().SetMaxOpenConns(1)
	db.Exec("PRAGMA foreign_keys = ON")
}

// Migrate создает или дополняет таблицы всех моделей
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CloseDB закрывает соединение с базой данных
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	err := db.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}
	return nil
}

// gormLogger пишет SQL-запросы gorm в zap на уровне debug
type gormLogger struct {
	log *zap.Logger
}

func (l gormLogger) Print(v ...interface{}) {
	if len(v) >= 6 && v[0] == "sql" {
		l.log.Debug("sql",
			zap.Any("source", v[1]),
			zap.Any("duration", v[2]),
			zap.Any("query", v[3]),
			zap.Any("vars", v[4]),
			zap.Any("rows", v[5]),
		)
		return
	}
	l.log.Debug("gorm", zap.Any("values", v))
}

// now - текущее время в UTC: sqlite сравнивает даты как строки,
// поэтому все даты пишутся в одной зоне
func now() time.Time {
	return time.Now().UTC()
}
