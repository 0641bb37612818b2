package server

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/config"
	"github.com/VitaminP8/blogicum/internal/media"
	"github.com/VitaminP8/blogicum/internal/storage/memory"
	"github.com/VitaminP8/blogicum/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	srv    *Server
	stores Stores
	cfg    *config.Config
	now    time.Time
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.JWTSecret = "test-secret"
	cfg.PostsOnPage = 3
	cfg.MediaDir = t.TempDir()
	return cfg
}

func newStores() Stores {
	db := memory.NewDatabase()
	return Stores{
		Users:      memory.NewUserMemoryStorage(db),
		Posts:      memory.NewPostMemoryStorage(db),
		Comments:   memory.NewCommentMemoryStorage(db),
		Categories: memory.NewCategoryMemoryStorage(db),
		Locations:  memory.NewLocationMemoryStorage(db),
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithStores(t, newStores())
}

func newTestAppWithStores(t *testing.T, stores Stores) *testApp {
	t.Helper()
	app := &testApp{
		stores: stores,
		cfg:    newTestConfig(t),
		now:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	srv, err := New(app.cfg, stores, zap.NewNop(), WithClock(func() time.Time { return app.now }))
	require.NoError(t, err)
	app.srv = srv
	return app
}

func (a *testApp) user(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := a.stores.Users.RegisterUser(context.Background(), username, "password123")
	require.NoError(t, err)
	return u
}

func (a *testApp) category(t *testing.T, slug string, published bool) *models.Category {
	t.Helper()
	c := &models.Category{Title: "Категория " + slug, Slug: slug, IsPublished: published}
	require.NoError(t, a.stores.Categories.CreateCategory(context.Background(), c))
	return c
}

// post создает опубликованный пост с датой публикации now+offset
func (a *testApp) post(t *testing.T, title string, author *models.User, category *models.Category, offset time.Duration) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:       title,
		Text:        "Текст " + title,
		PubDate:     a.now.Add(offset),
		IsPublished: true,
		AuthorID:    author.ID,
	}
	if category != nil {
		p.CategoryID = &category.ID
	}
	require.NoError(t, a.stores.Posts.CreatePost(context.Background(), p))
	return p
}

func (a *testApp) comment(t *testing.T, p *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{Text: text, PostID: p.ID, AuthorID: author.ID}
	require.NoError(t, a.stores.Comments.CreateComment(context.Background(), c))
	return c
}

func (a *testApp) sessionCookie(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	token, expires, err := a.srv.auth.IssueToken(u)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token, Expires: expires}
}

// do выполняет запрос; form == nil - GET без тела, u == nil - аноним
func (a *testApp) do(t *testing.T, method, target string, form url.Values, u *models.User) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return a.send(t, req, u)
}

func (a *testApp) send(t *testing.T, req *http.Request, u *models.User) *httptest.ResponseRecorder {
	t.Helper()
	if u != nil {
		req.AddCookie(a.sessionCookie(t, u))
	}
	w := httptest.NewRecorder()
	a.srv.ServeHTTP(w, req)
	return w
}

func multipartBody(t *testing.T, fields url.Values, fileField string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile(fileField, "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// pngImage - минимальный заголовок PNG, по нему DetectContentType узнает картинку
var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// imagePost создает пост с уже сохраненным изображением
func (a *testApp) imagePost(t *testing.T, title string, author *models.User, category *models.Category) *models.Post {
	t.Helper()
	rel, err := a.srv.media.Save(bytes.NewReader(pngImage))
	require.NoError(t, err)

	p := a.post(t, title, author, category, -time.Hour)
	p.Image = rel
	require.NoError(t, a.stores.Posts.UpdatePost(context.Background(), p))
	return p
}

// mediaFiles - пути загруженных изображений относительно media_dir
func (a *testApp) mediaFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(a.cfg.MediaDir, media.ImagesDir))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		files = append(files, media.ImagesDir+"/"+e.Name())
	}
	return files
}

// postRequest собирает multipart-запрос формы поста с файлом image
func postRequest(t *testing.T, target string, fields url.Values, file []byte) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, fields, "image", file)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	return req
}
