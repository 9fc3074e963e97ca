package server

import (
	"database/sql"
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/FZX/DummyBlog/internal/models"
)

type Server struct {
	DB *sql.DB

	log       *zap.SugaredLogger
	tmpl      map[string]*template.Template
	secret    []byte
	staticDir string
	now       func() time.Time
}

type Config struct {
	TemplateDir  string
	StaticDir    string
	CookieSecret string
}

func New(db *sql.DB, log *zap.SugaredLogger, cfg Config) (*Server, error) {
	if cfg.CookieSecret == "" {
		return nil, errors.New("cookie secret is required")
	}
	tmpl, err := loadTemplates(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	return &Server{
		DB:        db,
		log:       log,
		tmpl:      tmpl,
		secret:    []byte(cfg.CookieSecret),
		staticDir: cfg.StaticDir,
		now:       time.Now,
	}, nil
}

// tmplFuncs are the few helpers the pagers need.
var tmplFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// loadTemplates parses each page against the shared layout. Admin pages
// live under admin/ and keep that prefix in the map key.
func loadTemplates(dir string) (map[string]*template.Template, error) {
	layout := filepath.Join(dir, "layout.html")
	tmpl := map[string]*template.Template{}
	for _, pattern := range []string{"*.html", "admin/*.html"} {
		pages, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		for _, page := range pages {
			if filepath.Base(page) == "layout.html" {
				continue
			}
			t, err := template.New("layout.html").Funcs(tmplFuncs).ParseFiles(layout, page)
			if err != nil {
				return nil, err
			}
			rel, err := filepath.Rel(dir, page)
			if err != nil {
				return nil, err
			}
			name := strings.TrimSuffix(filepath.ToSlash(rel), ".html")
			tmpl[name] = t
		}
	}
	return tmpl, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/{page:[0-9]+}", s.handleIndex)
	r.Get("/post/{id:[0-9]+}", s.handlePost)
	r.Get("/about", s.handleAbout)
	r.Get("/contact", s.handleContactForm)
	r.Post("/contact", s.handleContactSubmit)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", s.requireAuth(s.handleDashboard))
		r.Get("/login", s.handleLoginForm)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
		r.Get("/editor", s.requireAuth(s.handleEditorForm))
		r.Post("/editor", s.requireAuth(s.handleEditorSubmit))
		r.Get("/view", s.requireAuth(s.handleAdminView))
		r.Get("/view/{page:[0-9]+}", s.requireAuth(s.handleAdminView))
		r.Post("/remove", s.requireAuthJSON(s.handleRemoveArticle))
		r.Get("/messages", s.requireAuth(s.handleMessages))
		r.Get("/messages/{page:[0-9]+}", s.requireAuth(s.handleMessages))
		r.Post("/messages", s.requireAuth(s.handleRemoveMessage))
		r.Get("/settings", s.requireAuth(s.handleSettingsForm))
		r.Post("/settings", s.requireAuth(s.handleSettingsSubmit))
	})

	s.staticRoutes(r)
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	t, ok := s.tmpl[name]
	if !ok {
		s.log.Errorw("template not found", "name", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Errorw("render", "name", name, "err", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.log.Errorw(op, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// currentAuthor resolves the signed session cookie to an author. Any
// failure along the way (no cookie, bad signature, expired, token unknown)
// reads as anonymous.
func (s *Server) currentAuthor(r *http.Request) *models.AuthorRef {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	token, ok := verifyToken(s.secret, cookie.Value, s.now())
	if !ok {
		return nil
	}
	ref, err := models.AuthorBySession(s.DB, token)
	if err != nil {
		return nil
	}
	return ref
}

type authedHandler func(http.ResponseWriter, *http.Request, *models.AuthorRef)

// requireAuth gates an HTML route: anonymous requests are redirected to the
// login page before any work happens.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author := s.currentAuthor(r)
		if author == nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r, author)
	}
}

// requireAuthJSON gates a JSON route: anonymous requests get a failure
// payload instead of a redirect.
func (s *Server) requireAuthJSON(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author := s.currentAuthor(r)
		if author == nil {
			s.renderJSON(w, r, statusNoRights)
			return
		}
		next(w, r, author)
	}
}

func (s *Server) renderJSON(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		s.log.Errorw("render json", "err", err)
	}
}
