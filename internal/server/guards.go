package server

import (
	"net/http"
	"net/url"

	"github.com/VitaminP8/blogicum/models"
)

type userHandler func(w http.ResponseWriter, r *http.Request, u *models.User)

type postHandler func(w http.ResponseWriter, r *http.Request, u *models.User, p *models.Post)

type commentHandler func(w http.ResponseWriter, r *http.Request, u *models.User, p *models.Post, c *models.Comment)

// requireAuth отправляет анонима на страницу входа с возвратом на текущий путь
func (s *Server) requireAuth(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if u == nil {
			http.Redirect(w, r, "/auth/login/?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r, u)
	}
}

// requirePostAuthor: нет поста - 404, чужой пост - редирект на его страницу
func (s *Server) requirePostAuthor(next postHandler) userHandler {
	return func(w http.ResponseWriter, r *http.Request, u *models.User) {
		id, err := pathID(r, "id")
		if err != nil {
			s.notFound(w, r)
			return
		}
		p, err := s.stores.Posts.GetPostById(r.Context(), id)
		if err != nil {
			s.storageError(w, r, err)
			return
		}
		if p.AuthorID != u.ID {
			http.Redirect(w, r, postURL(p.ID), http.StatusFound)
			return
		}
		next(w, r, u, p)
	}
}

// requireCommentAuthor: комментарий должен существовать и относиться к посту
// из адреса, иначе 404. Чужой комментарий - редирект на страницу поста.
func (s *Server) requireCommentAuthor(next commentHandler) userHandler {
	return func(w http.ResponseWriter, r *http.Request, u *models.User) {
		postID, err := pathID(r, "id")
		if err != nil {
			s.notFound(w, r)
			return
		}
		commentID, err := pathID(r, "cid")
		if err != nil {
			s.notFound(w, r)
			return
		}

		c, err := s.stores.Comments.GetCommentById(r.Context(), commentID)
		if err != nil {
			s.storageError(w, r, err)
			return
		}
		if c.PostID != postID {
			s.notFound(w, r)
			return
		}
		if c.AuthorID != u.ID {
			http.Redirect(w, r, postURL(postID), http.StatusFound)
			return
		}

		p, err := s.stores.Posts.GetPostById(r.Context(), postID)
		if err != nil {
			s.storageError(w, r, err)
			return
		}
		next(w, r, u, p, c)
	}
}
