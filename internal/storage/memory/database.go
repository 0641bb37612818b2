package memory

import (
	"sync"
	"time"

	"github.com/VitaminP8/blogicum/models"
)

// Database - общее состояние всех in-memory хранилищ. Одна блокировка на
// всё, потому что удаление пользователя или категории затрагивает посты
// и комментарии.
type Database struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	categories map[uint]*models.Category
	locations  map[uint]*models.Location
	posts      map[uint]*models.Post
	comments   map[uint]*models.Comment
	nextID     uint // Для хранения актуального ID (общий счетчик для всех таблиц)
	now        func() time.Time
}

func NewDatabase() *Database {
	return &Database{
		users:      make(map[uint]*models.User),
		categories: make(map[uint]*models.Category),
		locations:  make(map[uint]*models.Location),
		posts:      make(map[uint]*models.Post),
		comments:   make(map[uint]*models.Comment),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// id выдает следующий идентификатор, вызывается под блокировкой
func (d *Database) id() uint {
	d.nextID++
	return d.nextID
}
