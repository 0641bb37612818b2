// Package media сохраняет загруженные изображения постов
package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImagesDir - подкаталог для изображений постов внутри media_dir
const ImagesDir = "posts_images"

var ErrNotImage = errors.New("file is not an image")

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string {
	return s.root
}

// Save сохраняет изображение под случайным именем и возвращает путь
// относительно media_dir, например "posts_images/<uuid>.png"
func (s *Store) Save(r io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return "", ErrNotImage
		}
		return "", fmt.Errorf("could not read upload: %w", err)
	}
	head = head[:n]

	ext, ok := extensions[http.DetectContentType(head)]
	if !ok {
		return "", ErrNotImage
	}

	dir := filepath.Join(s.root, ImagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create media dir: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create image file: %w", err)
	}

	err = writeImage(f, head, r)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("could not close image file: %w", closeErr)
	}
	if err != nil {
		// недописанный файл не должен оставаться в posts_images
		_ = os.Remove(path)
		return "", err
	}
	return ImagesDir + "/" + name, nil
}

func writeImage(w io.Writer, head []byte, rest io.Reader) error {
	if _, err := w.Write(head); err != nil {
		return fmt.Errorf("could not write image: %w", err)
	}
	if _, err := io.Copy(w, rest); err != nil {
		return fmt.Errorf("could not write image: %w", err)
	}
	return nil
}

// Remove удаляет ранее сохраненный файл, пустой путь и отсутствующий файл
// ошибкой не считаются
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid media path %q", rel)
	}

	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove image: %w", err)
	}
	return nil
}
