package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/VitaminP8/blogicum/models"
)

// Форматы даты публикации: datetime-local, date и полный формат
var pubDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// PostForm - форма создания и редактирования поста. Поля хранятся в
// исходном виде, чтобы заново показать их при ошибке.
type PostForm struct {
	Title       string
	Text        string
	PubDate     string
	CategoryID  string
	LocationID  string
	IsPublished bool
	ClearImage  bool
	// Image - текущее изображение поста, только для отображения
	Image  string
	Errors Errors

	pubDate    time.Time
	categoryID *uint
	locationID *uint
}

// NewPostForm заполняет форму значениями поста, для нового поста - текущей
// датой и флагом публикации
func NewPostForm(p *models.Post, now time.Time) *PostForm {
	if p == nil {
		return &PostForm{
			PubDate:     now.UTC().Format(pubDateLayouts[0]),
			IsPublished: true,
			Errors:      Errors{},
		}
	}

	f := &PostForm{
		Title:       p.Title,
		Text:        p.Text,
		PubDate:     p.PubDate.UTC().Format(pubDateLayouts[0]),
		IsPublished: p.IsPublished,
		Image:       p.Image,
		Errors:      Errors{},
	}
	if p.CategoryID != nil {
		f.CategoryID = strconv.FormatUint(uint64(*p.CategoryID), 10)
	}
	if p.LocationID != nil {
		f.LocationID = strconv.FormatUint(uint64(*p.LocationID), 10)
	}
	return f
}

// BindPostForm читает из запроса только поля формы поста
func BindPostForm(values url.Values) *PostForm {
	return &PostForm{
		Title:       value(values, "title"),
		Text:        value(values, "text"),
		PubDate:     value(values, "pub_date"),
		CategoryID:  value(values, "category"),
		LocationID:  value(values, "location"),
		IsPublished: checked(values, "is_published"),
		ClearImage:  checked(values, "image-clear"),
		Errors:      Errors{},
	}
}

// Validate проверяет поля. Категория обязательна и должна существовать,
// местоположение можно не указывать.
func (f *PostForm) Validate(maxLength int, categories []*models.Category, locations []*models.Location) bool {
	switch {
	case f.Title == "":
		f.Errors.Add("title", msgRequired)
	case utf8.RuneCountInString(f.Title) > maxLength:
		f.Errors.Add("title", fmt.Sprintf(msgTooLong, maxLength))
	}

	if f.Text == "" {
		f.Errors.Add("text", msgRequired)
	}

	if f.PubDate == "" {
		f.Errors.Add("pub_date", msgRequired)
	} else if pubDate, ok := parsePubDate(f.PubDate); ok {
		f.pubDate = pubDate
	} else {
		f.Errors.Add("pub_date", "Введите правильную дату.")
	}

	if f.CategoryID == "" {
		f.Errors.Add("category", msgRequired)
	} else if id, ok := parseID(f.CategoryID); ok && hasCategory(categories, id) {
		f.categoryID = &id
	} else {
		f.Errors.Add("category", "Выберите корректный вариант.")
	}

	if f.LocationID != "" {
		if id, ok := parseID(f.LocationID); ok && hasLocation(locations, id) {
			f.locationID = &id
		} else {
			f.Errors.Add("location", "Выберите корректный вариант.")
		}
	}

	return f.Errors.Valid()
}

// Apply переносит проверенные значения в пост. Автор, id и изображение
// выставляет вызывающий код.
func (f *PostForm) Apply(p *models.Post) {
	p.Title = f.Title
	p.Text = f.Text
	p.PubDate = f.pubDate
	p.CategoryID = f.categoryID
	p.LocationID = f.locationID
	p.IsPublished = f.IsPublished
}

func parsePubDate(raw string) (time.Time, bool) {
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func hasCategory(categories []*models.Category, id uint) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasLocation(locations []*models.Location, id uint) bool {
	for _, l := range locations {
		if l.ID == id {
			return true
		}
	}
	return false
}
