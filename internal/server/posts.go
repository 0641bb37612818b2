package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/internal/media"
	"github.com/VitaminP8/blogicum/internal/pagination"
	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxUploadSize - предел тела запроса с формой поста
const maxUploadSize = 10 << 20

const (
	msgNotImage       = "Загрузите правильное изображение."
	msgFileAndClear   = "Пожалуйста, загрузите файл или поставьте флажок \"Очистить\", но не оба."
	msgUploadTooLarge = "Размер запроса не должен превышать 10 МБ."
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPostList(w, r, "index", post.Query{Published: true, Now: s.now()}, nil)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.stores.Categories.GetCategoryBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		s.storageError(w, r, err)
		return
	}
	if !c.IsPublished {
		s.notFound(w, r)
		return
	}

	q := post.Query{CategoryID: &c.ID, Published: true, Now: s.now()}
	s.renderPostList(w, r, "category", q, map[string]any{"Category": c})
}

// renderPostList выводит страницу ?page=N списка постов. Номер вне
// диапазона - 404.
func (s *Server) renderPostList(w http.ResponseWriter, r *http.Request, name string, q post.Query, data map[string]any) {
	raw := r.URL.Query().Get("page")
	q.Limit = s.cfg.PostsOnPage
	// номер больше возможного не попадает в запрос, его отсеет pagination.New
	if n, err := strconv.Atoi(raw); err == nil && n > 1 && q.Limit > 0 && n-1 <= math.MaxInt/q.Limit {
		q.Offset = (n - 1) * q.Limit
	}

	posts, total, err := s.stores.Posts.ListPosts(r.Context(), q)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	page, err := pagination.New(raw, q.Limit, total)
	if err != nil {
		s.notFound(w, r)
		return
	}
	// ?page=last: номер известен только после подсчета
	if page.Offset() != q.Offset {
		q.Offset = page.Offset()
		posts, _, err = s.stores.Posts.ListPosts(r.Context(), q)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
	}

	if data == nil {
		data = map[string]any{}
	}
	data["Posts"] = posts
	data["Page"] = page
	s.render(w, r, http.StatusOK, name, data)
}

// handlePostDetail: скрытый пост видит только автор, остальным 404
func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := s.visiblePost(w, r)
	if !ok {
		return
	}

	comments, err := s.stores.Comments.GetComments(r.Context(), p.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "detail", map[string]any{
		"Post":     p,
		"Comments": comments,
		"Form":     forms.NewCommentForm(nil),
	})
}

// visiblePost загружает пост из адреса с учетом видимости. Если пост не
// найден, ответ уже отправлен и ok == false.
func (s *Server) visiblePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		s.notFound(w, r)
		return nil, false
	}
	p, err := s.stores.Posts.GetPostById(r.Context(), id)
	if err != nil {
		s.storageError(w, r, err)
		return nil, false
	}

	u := currentUser(r)
	isAuthor := u != nil && u.ID == p.AuthorID
	if !isAuthor && !p.IsPublic(p.Category, s.now()) {
		s.notFound(w, r)
		return nil, false
	}
	return p, true
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request, u *models.User) {
	choices, err := s.postChoices(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		choices["Form"] = forms.NewPostForm(nil, s.now())
		s.render(w, r, http.StatusOK, "create", choices)
		return
	}

	if !s.parsePostForm(w, r, choices) {
		return
	}
	form := forms.BindPostForm(r.PostForm)
	p := &models.Post{AuthorID: u.ID}
	img, ok := s.bindPost(w, r, form, p, choices)
	if !ok {
		return
	}

	if err := s.stores.Posts.CreatePost(r.Context(), p); err != nil {
		s.discardImage(img)
		s.serverError(w, r, err)
		return
	}
	s.log.Info("post created", zap.Uint("post_id", p.ID), zap.String("author", u.Username))
	http.Redirect(w, r, profileURL(u.Username), http.StatusFound)
}

func (s *Server) handlePostEdit(w http.ResponseWriter, r *http.Request, u *models.User, p *models.Post) {
	choices, err := s.postChoices(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	choices["Post"] = p

	if r.Method != http.MethodPost {
		choices["Form"] = forms.NewPostForm(p, s.now())
		s.render(w, r, http.StatusOK, "create", choices)
		return
	}

	if !s.parsePostForm(w, r, choices) {
		return
	}
	form := forms.BindPostForm(r.PostForm)
	form.Image = p.Image
	img, ok := s.bindPost(w, r, form, p, choices)
	if !ok {
		return
	}

	if err := s.stores.Posts.UpdatePost(r.Context(), p); err != nil {
		s.discardImage(img)
		s.serverError(w, r, err)
		return
	}
	s.commitImage(img)
	http.Redirect(w, r, postURL(p.ID), http.StatusFound)
}

// handlePostDelete на GET показывает пост только для чтения
func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request, u *models.User, p *models.Post) {
	if r.Method != http.MethodPost {
		s.render(w, r, http.StatusOK, "create", map[string]any{
			"Post":   p,
			"Form":   forms.NewPostForm(p, s.now()),
			"Delete": true,
		})
		return
	}

	if err := s.stores.Posts.DeletePostById(r.Context(), p.ID); err != nil {
		s.storageError(w, r, err)
		return
	}
	if err := s.media.Remove(p.Image); err != nil {
		s.log.Warn("could not remove post image", zap.String("image", p.Image), zap.Error(err))
	}
	s.log.Info("post deleted", zap.Uint("post_id", p.ID), zap.String("author", u.Username))
	http.Redirect(w, r, profileURL(u.Username), http.StatusFound)
}

// imageChange - файлы изображения, затронутые формой поста
type imageChange struct {
	// saved - только что загруженный файл
	saved string
	// obsolete - прежний файл, удаляется после сохранения поста
	obsolete string
}

// bindPost проверяет форму и переносит ее в пост вместе с изображением.
// При ошибке форма показывается заново со статусом 422.
func (s *Server) bindPost(w http.ResponseWriter, r *http.Request, form *forms.PostForm, p *models.Post, data map[string]any) (imageChange, bool) {
	categories, _ := data["Categories"].([]*models.Category)
	locations, _ := data["Locations"].([]*models.Location)

	valid := form.Validate(s.cfg.MaxLength, categories, locations)

	file, _, err := r.FormFile("image")
	hasFile := err == nil
	if hasFile {
		defer file.Close()
		if form.ClearImage {
			form.Errors.Add("image", msgFileAndClear)
			valid = false
		}
	}
	if !valid {
		s.renderPostForm(w, r, http.StatusUnprocessableEntity, form, data)
		return imageChange{}, false
	}

	var img imageChange
	switch {
	case hasFile:
		rel, err := s.media.Save(file)
		if errors.Is(err, media.ErrNotImage) {
			form.Errors.Add("image", msgNotImage)
			s.renderPostForm(w, r, http.StatusUnprocessableEntity, form, data)
			return imageChange{}, false
		}
		if err != nil {
			s.serverError(w, r, err)
			return imageChange{}, false
		}
		img = imageChange{saved: rel, obsolete: p.Image}
		p.Image = rel
	case form.ClearImage && p.Image != "":
		img = imageChange{obsolete: p.Image}
		p.Image = ""
	}

	form.Apply(p)
	return img, true
}

func (s *Server) renderPostForm(w http.ResponseWriter, r *http.Request, status int, form *forms.PostForm, data map[string]any) {
	data["Form"] = form
	s.render(w, r, status, "create", data)
}

// commitImage удаляет прежний файл после успешного сохранения поста
func (s *Server) commitImage(img imageChange) {
	if err := s.media.Remove(img.obsolete); err != nil {
		s.log.Warn("could not remove old image", zap.String("image", img.obsolete), zap.Error(err))
	}
}

// discardImage удаляет загруженный файл, если пост не сохранился
func (s *Server) discardImage(img imageChange) {
	if err := s.media.Remove(img.saved); err != nil {
		s.log.Warn("could not remove unsaved image", zap.String("image", img.saved), zap.Error(err))
	}
}

func (s *Server) postChoices(r *http.Request) (map[string]any, error) {
	categories, err := s.stores.Categories.GetAllCategories(r.Context())
	if err != nil {
		return nil, fmt.Errorf("could not get categories: %w", err)
	}
	locations, err := s.stores.Locations.GetAllLocations(r.Context())
	if err != nil {
		return nil, fmt.Errorf("could not get locations: %w", err)
	}
	return map[string]any{"Categories": categories, "Locations": locations}, nil
}

// parsePostForm разбирает как multipart, так и обычную urlencoded форму.
// Тело больше maxUploadSize отклоняется со статусом 413.
func (s *Server) parsePostForm(w http.ResponseWriter, r *http.Request, data map[string]any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	err := r.ParseMultipartForm(maxUploadSize)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		form := forms.BindPostForm(r.PostForm)
		form.Errors.Add("image", msgUploadTooLarge)
		s.renderPostForm(w, r, http.StatusRequestEntityTooLarge, form, data)
		return false
	case err != nil:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}
