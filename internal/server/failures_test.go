package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/mocks"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/stretchr/testify/assert"
)

var errBroken = errors.New("connection refused")

type failingApp struct {
	*testApp
	posts    *mocks.MockPostStorage
	comments *mocks.MockCommentStorage
	users    *mocks.MockUserStorage
}

func newFailingApp(t *testing.T) *failingApp {
	t.Helper()
	stores := newStores()
	fa := &failingApp{
		posts:    mocks.NewMockPostStorage(stores.Posts),
		comments: mocks.NewMockCommentStorage(stores.Comments),
		users:    mocks.NewMockUserStorage(stores.Users),
	}
	stores.Posts = fa.posts
	stores.Comments = fa.comments
	stores.Users = fa.users
	fa.testApp = newTestAppWithStores(t, stores)
	return fa
}

func TestStorageFailures(t *testing.T) {
	t.Run("Post list", func(t *testing.T) {
		app := newFailingApp(t)
		app.posts.FailOn("ListPosts", errBroken)

		w := app.do(t, http.MethodGet, "/", nil, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Ошибка 500")
		assert.NotContains(t, w.Body.String(), errBroken.Error())
	})

	t.Run("Post detail comments", func(t *testing.T) {
		app := newFailingApp(t)
		author := app.user(t, "author")
		p := app.post(t, "Пост", author, nil, -time.Hour)
		app.comments.FailOn("GetComments", errBroken)

		w := app.do(t, http.MethodGet, postURL(p.ID), nil, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Comment creation", func(t *testing.T) {
		app := newFailingApp(t)
		author := app.user(t, "author")
		p := app.post(t, "Пост", author, nil, -time.Hour)
		app.comments.FailOn("CreateComment", errBroken)

		w := app.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comment/", p.ID), url.Values{"text": {"Привет"}}, author)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		app.comments.FailOn("CreateComment", nil)
		w = app.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comment/", p.ID), url.Values{"text": {"Привет"}}, author)
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("Failed update keeps old image", func(t *testing.T) {
		app := newFailingApp(t)
		author := app.user(t, "author")
		c := app.category(t, "news", true)
		p := app.imagePost(t, "with image", author, c)
		app.posts.FailOn("UpdatePost", errBroken)

		w := app.send(t, postRequest(t, fmt.Sprintf("/posts/%d/edit/", p.ID), validPostForm(c), pngImage), author)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, []string{p.Image}, app.mediaFiles(t))
	})

	t.Run("Failed create removes upload", func(t *testing.T) {
		app := newFailingApp(t)
		author := app.user(t, "author")
		c := app.category(t, "news", true)
		app.posts.FailOn("CreatePost", errBroken)

		w := app.send(t, postRequest(t, "/posts/create/", validPostForm(c), pngImage), author)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, app.mediaFiles(t))
	})

	t.Run("Wrapped not found is 404", func(t *testing.T) {
		app := newFailingApp(t)
		app.user(t, "alice")
		app.users.FailOn("GetUserByUsername", fmt.Errorf("lookup: %w", storage.ErrNotFound))

		w := app.do(t, http.MethodGet, "/profile/alice/", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Current user lookup failure makes request anonymous", func(t *testing.T) {
		app := newFailingApp(t)
		u := app.user(t, "alice")
		app.users.FailOn("GetUserById", errBroken)

		w := app.do(t, http.MethodGet, "/posts/create/", nil, u)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/auth/login/")
	})
}
