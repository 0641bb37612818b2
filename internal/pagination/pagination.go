// Package pagination разбивает списки постов на страницы по ?page=N
package pagination

import (
	"errors"
	"strconv"
)

// ErrInvalidPage - номер страницы не число или вне диапазона
var ErrInvalidPage = errors.New("invalid page")

type Page struct {
	Number     int
	Size       int
	TotalItems int
	NumPages   int
}

// New разбирает параметр page. Пустое значение - первая страница, "last" -
// последняя. Первая страница пустого списка допустима.
func New(raw string, size, total int) (*Page, error) {
	if size <= 0 {
		size = 1
	}
	numPages := (total + size - 1) / size
	if numPages == 0 {
		numPages = 1
	}

	number := 1
	switch raw {
	case "":
	case "last":
		number = numPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, ErrInvalidPage
		}
		number = n
	}
	if number < 1 || number > numPages {
		return nil, ErrInvalidPage
	}

	return &Page{Number: number, Size: size, TotalItems: total, NumPages: numPages}, nil
}

func (p *Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) Previous() int {
	return p.Number - 1
}

func (p *Page) Next() int {
	return p.Number + 1
}
