// Package web содержит встроенные в бинарник шаблоны и статические файлы
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates - html-шаблоны страниц
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static - css и прочие статические файлы
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
