package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/category"
	"github.com/VitaminP8/blogicum/internal/comment"
	"github.com/VitaminP8/blogicum/internal/config"
	"github.com/VitaminP8/blogicum/internal/location"
	"github.com/VitaminP8/blogicum/internal/media"
	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/models"
	"github.com/VitaminP8/blogicum/web"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Stores - хранилища, с которыми работают обработчики
type Stores struct {
	Users      user.UserStorage
	Posts      post.PostStorage
	Comments   comment.CommentStorage
	Categories category.CategoryStorage
	Locations  location.LocationStorage
}

type Server struct {
	stores  Stores
	cfg     *config.Config
	log     *zap.Logger
	auth    *auth.Authenticator
	media   *media.Store
	tmpl    *Renderer
	static  fs.FS
	now     func() time.Time
	handler http.Handler
}

type Option func(*Server)

// WithClock подменяет текущее время, от него зависит видимость постов
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(cfg *config.Config, stores Stores, logger *zap.Logger, opts ...Option) (*Server, error) {
	templates := web.Templates()
	if cfg.TemplateDir != "" {
		templates = os.DirFS(cfg.TemplateDir)
	}
	tmpl, err := NewRenderer(templates)
	if err != nil {
		return nil, err
	}

	s := &Server{
		stores: stores,
		cfg:    cfg,
		log:    logger,
		auth:   auth.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL),
		media:  media.NewStore(cfg.MediaDir),
		tmpl:   tmpl,
		static: web.Static(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	csrf := http.NewCrossOriginProtection()
	csrf.SetDenyHandler(http.HandlerFunc(s.forbidden))

	var h http.Handler = s.routes()
	h = s.loadUser(h)
	h = s.auth.Middleware(h)
	h = csrf.Handler(h)
	h = s.recoverPanic(h)
	h = s.logRequest(h)
	s.handler = h
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	get := []string{http.MethodGet, http.MethodHead}
	form := []string{http.MethodGet, http.MethodHead, http.MethodPost}

	r.HandleFunc("/", s.handleIndex).Methods(get...)
	r.HandleFunc("/category/{slug}/", s.handleCategory).Methods(get...)

	r.HandleFunc("/posts/create/", s.requireAuth(s.handlePostCreate)).Methods(form...)
	r.HandleFunc("/posts/{id:[0-9]+}/", s.handlePostDetail).Methods(get...)
	r.HandleFunc("/posts/{id:[0-9]+}/edit/", s.requireAuth(s.requirePostAuthor(s.handlePostEdit))).Methods(form...)
	r.HandleFunc("/posts/{id:[0-9]+}/delete/", s.requireAuth(s.requirePostAuthor(s.handlePostDelete))).Methods(form...)

	r.HandleFunc("/posts/{id:[0-9]+}/comment/", s.requireAuth(s.handleCommentCreate)).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id:[0-9]+}/edit_comment/{cid:[0-9]+}/", s.requireAuth(s.requireCommentAuthor(s.handleCommentEdit))).Methods(form...)
	r.HandleFunc("/posts/{id:[0-9]+}/delete_comment/{cid:[0-9]+}/", s.requireAuth(s.requireCommentAuthor(s.handleCommentDelete))).Methods(form...)

	// /profile/edit/ раньше /profile/{username}/
	r.HandleFunc("/profile/edit/", s.requireAuth(s.handleProfileEdit)).Methods(form...)
	r.HandleFunc("/profile/{username}/", s.handleProfile).Methods(get...)

	r.HandleFunc("/auth/registration/", s.handleRegistration).Methods(form...)
	r.HandleFunc("/auth/login/", s.handleLogin).Methods(form...)
	r.HandleFunc("/auth/logout/", s.handleLogout).Methods(form...)

	r.HandleFunc("/pages/about/", s.handleStaticPage("about")).Methods(get...)
	r.HandleFunc("/pages/rules/", s.handleStaticPage("rules")).Methods(get...)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	r.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(s.media.Root()))))

	r.NotFoundHandler = http.HandlerFunc(s.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Templates нужен для перезагрузки шаблонов с диска
func (s *Server) Templates() *Renderer {
	return s.tmpl
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["User"] = currentUser(r)
	data["Path"] = r.URL.Path

	var buf bytes.Buffer
	if err := s.tmpl.Render(&buf, name, data); err != nil {
		s.log.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "404", nil)
}

func (s *Server) forbidden(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusForbidden, "403csrf", nil)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("internal error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	s.render(w, r, http.StatusInternalServerError, "500", nil)
}

// storageError отвечает 404 на ErrNotFound и 500 на всё остальное
func (s *Server) storageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	s.serverError(w, r, err)
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %w", name, storage.ErrNotFound)
	}
	return uint(id), nil
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

type userContextKey struct{}

// loadUser по userID из токена загружает пользователя. Пользователь,
// удаленный после выдачи токена, считается анонимным.
func (s *Server) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.GetUserIDFromContext(r.Context())
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		u, err := s.stores.Users.GetUserById(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				s.log.Warn("could not load current user", zap.Uint("user_id", userID), zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey{}, u)))
	})
}

// currentUser - пользователь запроса или nil для анонима
func currentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userContextKey{}).(*models.User)
	return u
}
