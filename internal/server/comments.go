package server

import (
	"net/http"

	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/models"
	"go.uber.org/zap"
)

// handleCommentCreate: комментировать можно только видимый пользователю пост
func (s *Server) handleCommentCreate(w http.ResponseWriter, r *http.Request, u *models.User) {
	p, ok := s.visiblePost(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := forms.BindCommentForm(r.PostForm)
	if !form.Validate() {
		s.render(w, r, http.StatusUnprocessableEntity, "comment", map[string]any{
			"Post": p,
			"Form": form,
		})
		return
	}

	c := &models.Comment{Text: form.Text, PostID: p.ID, AuthorID: u.ID}
	if err := s.stores.Comments.CreateComment(r.Context(), c); err != nil {
		s.storageError(w, r, err)
		return
	}
	s.log.Info("comment created", zap.Uint("comment_id", c.ID), zap.Uint("post_id", p.ID))
	http.Redirect(w, r, postURL(p.ID), http.StatusFound)
}

func (s *Server) handleCommentEdit(w http.ResponseWriter, r *http.Request, u *models.User, p *models.Post, c *models.Comment) {
	data := map[string]any{"Post": p, "Comment": c}

	if r.Method != http.MethodPost {
		data["Form"] = forms.NewCommentForm(c)
		s.render(w, r, http.StatusOK, "comment", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := forms.BindCommentForm(r.PostForm)
	if !form.Validate() {
		data["Form"] = form
		s.render(w, r, http.StatusUnprocessableEntity, "comment", data)
		return
	}

	c.Text = form.Text
	if err := s.stores.Comments.UpdateComment(r.Context(), c); err != nil {
		s.storageError(w, r, err)
		return
	}
	http.Redirect(w, r, postURL(p.ID), http.StatusFound)
}

// handleCommentDelete на GET показывает комментарий для подтверждения
func (s *Server) handleCommentDelete(w http.ResponseWriter, r *http.Request, u *models.User, p *models.Post, c *models.Comment) {
	if r.Method != http.MethodPost {
		s.render(w, r, http.StatusOK, "comment", map[string]any{
			"Post":    p,
			"Comment": c,
			"Delete":  true,
		})
		return
	}

	if err := s.stores.Comments.DeleteCommentById(r.Context(), c.ID); err != nil {
		s.storageError(w, r, err)
		return
	}
	http.Redirect(w, r, postURL(p.ID), http.StatusFound)
}
