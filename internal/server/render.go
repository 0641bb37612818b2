package server

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Renderer хранит разобранные шаблоны: каждая страница собирается из
// layout.html, всех partials/*.html и собственного файла
type Renderer struct {
	mu    sync.RWMutex
	fsys  fs.FS
	pages map[string]*template.Template
}

func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{fsys: fsys}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload заново разбирает все шаблоны. При ошибке остаются старые.
func (r *Renderer) Reload() error {
	partials, err := fs.Glob(r.fsys, "partials/*.html")
	if err != nil {
		return fmt.Errorf("could not list partials: %w", err)
	}
	files, err := fs.Glob(r.fsys, "*.html")
	if err != nil {
		return fmt.Errorf("could not list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == "layout.html" {
			continue
		}
		patterns := append([]string{"layout.html"}, partials...)
		patterns = append(patterns, file)

		t, err := template.New(file).Funcs(templateFuncs).ParseFS(r.fsys, patterns...)
		if err != nil {
			return fmt.Errorf("could not parse template %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	r.mu.RLock()
	t, ok := r.pages[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("could not render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.UTC().Format("02.01.2006 15:04")
	},
	"since": func(t time.Time) string {
		return humanize.Time(t)
	},
	"count": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"media": func(rel string) string {
		return "/media/" + rel
	},
	"truncatewords": truncateWords,
	"linebreaks":    linebreaks,
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + " …"
}

// linebreaks экранирует текст и заменяет переводы строк на <br>
func linebreaks(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>\n"))
}
