package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/FZX/DummyBlog/internal/models"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	d, err := models.LoadDashboard(s.DB)
	if err != nil {
		s.serverError(w, "load dashboard", err)
		return
	}
	s.render(w, "admin/index", map[string]any{
		"Author":    author,
		"Dashboard": d,
	})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if s.currentAuthor(r) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	s.render(w, "admin/login", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		s.renderJSON(w, r, statusFail)
		return
	}

	_, token, err := models.Login(s.DB, username, password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		s.renderJSON(w, r, statusFail)
		return
	}
	if err != nil {
		s.serverError(w, "login", err)
		return
	}
	s.setSessionCookie(w, token)
	s.renderJSON(w, r, statusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if author := s.currentAuthor(r); author != nil {
		if err := models.RotateSession(s.DB, author.ID); err != nil {
			s.serverError(w, "logout", err)
			return
		}
		s.clearSessionCookie(w)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// editorForm is the validated editor submission. btnval carries the draft
// flag from whichever button the author pressed.
type editorForm struct {
	models.ArticleFields
}

func (f *editorForm) bind(r *http.Request) error {
	f.Title = r.FormValue("title")
	f.Subtitle = r.FormValue("subtitle")
	f.HeaderImage = r.FormValue("imgurl")
	f.Body = r.FormValue("article")
	if f.Title == "" {
		return errors.New("title is required")
	}
	draft, err := strconv.Atoi(r.FormValue("btnval"))
	if err != nil {
		return errors.New("btnval is required")
	}
	f.Draft = draft != 0
	return nil
}

func (s *Server) handleEditorForm(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	mode := "new"
	var article *models.Article
	if r.URL.Query().Get("mode") == "edit" {
		mode = "edit"
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err == nil {
			article, err = models.GetOwnArticle(s.DB, id, author.ID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				s.serverError(w, "load article", err)
				return
			}
		}
	}
	s.render(w, "admin/editor", map[string]any{
		"Mode":    mode,
		"Article": article,
	})
}

func (s *Server) handleEditorSubmit(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	var form editorForm
	if err := form.bind(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch r.URL.Query().Get("m") {
	case "new":
		if _, err := models.CreateArticle(s.DB, author.ID, form.ArticleFields); err != nil {
			s.serverError(w, "create article", err)
			return
		}
	case "edit":
		rawID := r.FormValue("id")
		if rawID == "" {
			http.Redirect(w, r, "/admin/editor", http.StatusSeeOther)
			return
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		err = models.UpdateArticle(s.DB, id, author.ID, form.ArticleFields)
		if errors.Is(err, models.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			s.serverError(w, "update article", err)
			return
		}
	default:
		http.Error(w, "unknown editor mode", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/admin/view?mode=post", http.StatusSeeOther)
}

func (s *Server) handleAdminView(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	var draft bool
	mode := r.URL.Query().Get("mode")
	switch mode {
	case "post":
		draft = false
	case "draft":
		draft = true
	default:
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	page := pageParam(r)
	articles, pages, err := models.ListByAuthor(s.DB, author.ID, draft, page)
	if err != nil {
		s.serverError(w, "list own articles", err)
		return
	}
	s.render(w, "admin/posts", map[string]any{
		"Articles": articles,
		"MaxPages": pages,
		"Page":     page,
		"Mode":     mode,
	})
}

func (s *Server) handleRemoveArticle(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		s.renderJSON(w, r, statusNoID)
		return
	}
	err = models.DeleteArticle(s.DB, id, author.ID)
	if errors.Is(err, models.ErrNotFound) {
		s.renderJSON(w, r, statusNoID)
		return
	}
	if err != nil {
		s.serverError(w, "delete article", err)
		return
	}
	s.renderJSON(w, r, statusSuccess)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	if show := r.URL.Query().Get("show"); show != "" {
		id, err := strconv.ParseInt(show, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		msg, err := models.GetContact(s.DB, id)
		if errors.Is(err, models.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			s.serverError(w, "get message", err)
			return
		}
		s.render(w, "admin/message-show", map[string]any{"Message": msg})
		return
	}

	page := pageParam(r)
	messages, pages, err := models.ListContacts(s.DB, page)
	if err != nil {
		s.serverError(w, "list messages", err)
		return
	}
	s.render(w, "admin/contact", map[string]any{
		"Messages": messages,
		"MaxPages": pages,
		"Page":     page,
	})
}

func (s *Server) handleRemoveMessage(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	id, err := strconv.ParseInt(r.FormValue("msgid"), 10, 64)
	if err != nil {
		s.renderJSON(w, r, statusNoID)
		return
	}
	err = models.DeleteContact(s.DB, id)
	if errors.Is(err, models.ErrNotFound) {
		s.renderJSON(w, r, statusNoID)
		return
	}
	if err != nil {
		s.serverError(w, "delete message", err)
		return
	}
	s.renderJSON(w, r, statusOK)
}

func (s *Server) handleSettingsForm(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	if r.URL.Query().Get("mode") != "user" {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	a, err := models.GetAuthor(s.DB, author.ID)
	if err != nil {
		s.serverError(w, "load author", err)
		return
	}
	s.render(w, "admin/usersettings", map[string]any{"User": a})
}

func (s *Server) handleSettingsSubmit(w http.ResponseWriter, r *http.Request, author *models.AuthorRef) {
	if r.URL.Query().Get("mode") != "user" {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	update := models.AuthorUpdate{
		Firstname:   r.FormValue("firstname"),
		Lastname:    r.FormValue("lastname"),
		Username:    r.FormValue("username"),
		Email:       r.FormValue("email"),
		OldPassword: r.FormValue("oldpassword"),
		NewPassword: r.FormValue("newpassword"),
	}
	err := models.UpdateAuthor(s.DB, author.ID, update)
	if errors.Is(err, models.ErrEmptyUpdate) || errors.Is(err, models.ErrInvalidCredentials) {
		// An empty form or a failed password check silently no-ops.
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.serverError(w, "update author", err)
		return
	}
	http.Redirect(w, r, "/admin/settings?mode=user", http.StatusSeeOther)
}
