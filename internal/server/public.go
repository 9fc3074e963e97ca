package server

import (
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FZX/DummyBlog/internal/models"
)

// pageParam reads the page number from the URL, defaulting to 1. The route
// pattern guarantees digits.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	search := r.URL.Query().Get("q")

	var authorID *int64
	if au := r.URL.Query().Get("author"); au != "" {
		id, err := strconv.ParseInt(au, 10, 64)
		if err != nil {
			http.Error(w, "invalid author", http.StatusBadRequest)
			return
		}
		authorID = &id
	}

	articles, pages, err := models.ListPublished(s.DB, page, search, authorID)
	if err != nil {
		s.serverError(w, "list articles", err)
		return
	}
	s.render(w, "index", map[string]any{
		"Articles":    articles,
		"MaxPages":    pages,
		"CurrentPage": page,
		"Search":      search,
		"Author":      authorID,
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	article, err := models.GetArticle(s.DB, id)
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, "get article", err)
		return
	}
	s.render(w, "post", map[string]any{"Article": article})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, "about", nil)
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "contact", nil)
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	var form contactForm
	if !form.bind(r) {
		s.renderJSON(w, r, statusNoID)
		return
	}
	ip := guestIP(r)
	if _, err := models.CreateContact(s.DB, form.Name, form.Message, form.Email, ip); err != nil {
		s.serverError(w, "create contact", err)
		return
	}
	s.renderJSON(w, r, statusOK)
}

// guestIP is best-effort: the bare remote address, without the port.
func guestIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
