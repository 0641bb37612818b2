// Package forms разбирает и проверяет данные HTML-форм. Каждая форма
// читает только свои поля, поэтому лишние поля запроса (author, post_id и
// т.п.) ни на что не влияют.
package forms

import (
	"net/url"
	"strconv"
	"strings"
)

// Errors - ошибки по полям формы, ключ "" для ошибок всей формы
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get возвращает первую ошибку поля
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

const (
	msgRequired = "Обязательное поле."
	msgTooLong  = "Убедитесь, что это значение содержит не более %d символов."
)

func value(values url.Values, field string) string {
	return strings.TrimSpace(values.Get(field))
}

func checked(values url.Values, field string) bool {
	switch strings.ToLower(values.Get(field)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
