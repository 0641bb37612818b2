package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchTemplates перечитывает шаблоны из dir при каждом изменении .html
// файла. Блокируется до отмены ctx.
func (s *Server) WatchTemplates(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create template watcher: %w", err)
	}
	defer watcher.Close()

	for _, d := range []string{dir, filepath.Join(dir, "partials")} {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("could not watch %s: %w", d, err)
		}
	}
	s.log.Info("watching templates", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".html") {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.tmpl.Reload(); err != nil {
				s.log.Warn("template reload failed", zap.String("file", event.Name), zap.Error(err))
				continue
			}
			s.log.Debug("templates reloaded", zap.String("file", event.Name))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("template watcher error", zap.Error(err))
		}
	}
}
