package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCreate(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "author")
	reader := app.user(t, "reader")
	p := app.post(t, "public", author, nil, -time.Hour)
	other := app.post(t, "other", author, nil, -time.Hour)
	commentURL := fmt.Sprintf("/posts/%d/comment/", p.ID)

	t.Run("Authenticated comment", func(t *testing.T) {
		form := url.Values{"text": {"Nice post"}, "post": {fmt.Sprint(other.ID)}, "author": {fmt.Sprint(author.ID)}}
		w := app.do(t, http.MethodPost, commentURL, form, reader)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, fmt.Sprintf("/posts/%d/", p.ID), w.Header().Get("Location"))

		comments, err := app.stores.Comments.GetComments(context.Background(), p.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "Nice post", comments[0].Text)
		assert.Equal(t, reader.ID, comments[0].AuthorID)
		assert.Equal(t, p.ID, comments[0].PostID)

		comments, err = app.stores.Comments.GetComments(context.Background(), other.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("Anonymous is redirected to login", func(t *testing.T) {
		w := app.do(t, http.MethodPost, commentURL, url.Values{"text": {"x"}}, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/auth/login/")
	})

	t.Run("Empty text", func(t *testing.T) {
		w := app.do(t, http.MethodPost, commentURL, url.Values{"text": {" "}}, reader)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Обязательное поле.")
	})

	t.Run("Hidden post cannot be commented", func(t *testing.T) {
		future := app.post(t, "future", author, nil, time.Hour)
		w := app.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comment/", future.ID), url.Values{"text": {"x"}}, reader)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		w := app.do(t, http.MethodGet, commentURL, nil, reader)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestCommentEditAndDelete(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "author")
	commenter := app.user(t, "commenter")
	stranger := app.user(t, "stranger")
	p := app.post(t, "public", author, nil, -time.Hour)
	other := app.post(t, "other", author, nil, -time.Hour)
	c := app.comment(t, p, commenter, "original comment")

	editURL := fmt.Sprintf("/posts/%d/edit_comment/%d/", p.ID, c.ID)
	deleteURL := fmt.Sprintf("/posts/%d/delete_comment/%d/", p.ID, c.ID)
	postPage := fmt.Sprintf("/posts/%d/", p.ID)

	t.Run("Non-author cannot delete comment", func(t *testing.T) {
		w := app.do(t, http.MethodPost, deleteURL, url.Values{}, stranger)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, postPage, w.Header().Get("Location"))

		got, err := app.stores.Comments.GetCommentById(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, "original comment", got.Text)
	})

	t.Run("Non-author cannot edit comment", func(t *testing.T) {
		w := app.do(t, http.MethodPost, editURL, url.Values{"text": {"hacked"}}, stranger)
		assert.Equal(t, http.StatusFound, w.Code)

		got, err := app.stores.Comments.GetCommentById(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, "original comment", got.Text)
	})

	t.Run("Comment of another post", func(t *testing.T) {
		w := app.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/edit_comment/%d/", other.ID, c.ID), nil, commenter)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing comment", func(t *testing.T) {
		w := app.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/edit_comment/999/", p.ID), nil, commenter)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Author edits comment", func(t *testing.T) {
		w := app.do(t, http.MethodGet, editURL, nil, commenter)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "original comment")

		w = app.do(t, http.MethodPost, editURL, url.Values{"text": {"edited comment"}}, commenter)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, postPage, w.Header().Get("Location"))

		got, err := app.stores.Comments.GetCommentById(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited comment", got.Text)
	})

	t.Run("Author deletes comment", func(t *testing.T) {
		w := app.do(t, http.MethodGet, deleteURL, nil, commenter)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Удалить комментарий?")

		w = app.do(t, http.MethodPost, deleteURL, url.Values{}, commenter)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, postPage, w.Header().Get("Location"))

		_, err := app.stores.Comments.GetCommentById(context.Background(), c.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
