package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const msgUsernameTaken = "Пользователь с таким именем уже существует."

// handleProfile: владелец видит все свои посты, остальные - только опубликованные
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.stores.Users.GetUserByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	viewer := currentUser(r)
	isOwner := viewer != nil && viewer.ID == profile.ID
	q := post.Query{AuthorID: &profile.ID, Published: !isOwner, Now: s.now()}
	s.renderPostList(w, r, "profile", q, map[string]any{"Profile": profile})
}

func (s *Server) handleProfileEdit(w http.ResponseWriter, r *http.Request, u *models.User) {
	if r.Method != http.MethodPost {
		s.render(w, r, http.StatusOK, "user", map[string]any{"Form": forms.NewProfileForm(u)})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := forms.BindProfileForm(r.PostForm)
	if !form.Validate() {
		s.render(w, r, http.StatusUnprocessableEntity, "user", map[string]any{"Form": form})
		return
	}

	updated := *u
	form.Apply(&updated)
	err := s.stores.Users.UpdateProfile(r.Context(), &updated)
	if errors.Is(err, storage.ErrConflict) {
		form.Errors.Add("username", msgUsernameTaken)
		s.render(w, r, http.StatusUnprocessableEntity, "user", map[string]any{"Form": form})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(updated.Username), http.StatusFound)
}

func (s *Server) handleRegistration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, r, http.StatusOK, "registration", map[string]any{"Form": forms.BindRegistrationForm(nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := forms.BindRegistrationForm(r.PostForm)
	if !form.Validate() {
		s.render(w, r, http.StatusUnprocessableEntity, "registration", map[string]any{"Form": form})
		return
	}

	u, err := s.stores.Users.RegisterUser(r.Context(), form.Username, form.Password1)
	if errors.Is(err, storage.ErrConflict) {
		form.Errors.Add("username", msgUsernameTaken)
		s.render(w, r, http.StatusUnprocessableEntity, "registration", map[string]any{"Form": form})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	http.Redirect(w, r, "/auth/login/", http.StatusFound)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))

	if r.Method != http.MethodPost {
		s.render(w, r, http.StatusOK, "login", map[string]any{
			"Form": forms.BindLoginForm(nil),
			"Next": next,
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if v := r.PostForm.Get("next"); v != "" {
		next = safeNext(v)
	}

	form := forms.BindLoginForm(r.PostForm)
	data := map[string]any{"Form": form, "Next": next}
	if !form.Validate() {
		s.render(w, r, http.StatusUnprocessableEntity, "login", data)
		return
	}

	u, err := s.stores.Users.LoginUser(r.Context(), form.Username, form.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		form.Errors.Add("", "Пожалуйста, введите правильные имя пользователя и пароль.")
		s.render(w, r, http.StatusUnprocessableEntity, "login", data)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	token, expires, err := s.auth.IssueToken(u)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	auth.SetCookie(w, token, expires)

	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleStaticPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, name, nil)
	}
}

// safeNext пропускает только относительные пути этого сайта
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
