package server

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FZX/DummyBlog/internal/db"
	"github.com/FZX/DummyBlog/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	staticDir := filepath.Join(dir, "static")
	if err := os.MkdirAll(filepath.Join(staticDir, "img"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "img", "logo.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	srv, err := New(database, zap.NewNop().Sugar(), Config{
		TemplateDir:  "../../web/templates",
		StaticDir:    staticDir,
		CookieSecret: "test-secret",
	})
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return srv
}

func insertAuthor(t *testing.T, database *sql.DB, username, password string) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	res, err := database.Exec(`INSERT INTO authors (username, password, email) VALUES (?, ?, ?)`,
		username, string(hash), username+"@example.com")
	if err != nil {
		t.Fatalf("insert author: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func postForm(t *testing.T, srv *Server, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, srv *Server, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, srv *Server, username, password string) *http.Cookie {
	t.Helper()
	w := postForm(t, srv, "/admin/login", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	if !strings.Contains(w.Body.String(), `"OK"`) {
		t.Fatalf("login failed: %s", w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestAdminRequiresSession(t *testing.T) {
	srv := newTestServer(t)
	w := get(t, srv, "/admin", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("code=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestLoginLogoutReplay(t *testing.T) {
	srv := newTestServer(t)
	insertAuthor(t, srv.DB, "alice", "secret")

	cookie := loginAs(t, srv, "alice", "secret")
	if w := get(t, srv, "/admin", cookie); w.Code != http.StatusOK {
		t.Fatalf("admin with session: %d", w.Code)
	}

	w := get(t, srv, "/admin/logout", cookie)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("logout: code=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	// the pre-logout cookie must not authenticate again
	if w := get(t, srv, "/admin", cookie); w.Code != http.StatusSeeOther {
		t.Fatalf("replayed cookie still works: %d", w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	insertAuthor(t, srv.DB, "alice", "secret")

	for _, form := range []url.Values{
		{"username": {"alice"}, "password": {"wrong"}},
		{"username": {"mallory"}, "password": {"secret"}},
		{"username": {"alice"}, "password": {""}},
	} {
		w := postForm(t, srv, "/admin/login", form, nil)
		if !strings.Contains(w.Body.String(), `"FAIL"`) {
			t.Fatalf("form %v: body %s", form, w.Body.String())
		}
		for _, c := range w.Result().Cookies() {
			if c.Name == SessionCookie {
				t.Fatalf("form %v: session cookie set on failure", form)
			}
		}
	}
}

func TestContactSubmission(t *testing.T) {
	srv := newTestServer(t)

	w := postForm(t, srv, "/contact", url.Values{
		"name": {"A"}, "email": {"a@b.com"}, "message": {"hi"},
	}, nil)
	if !strings.Contains(w.Body.String(), `"OK"`) {
		t.Fatalf("body: %s", w.Body.String())
	}

	list, _, err := models.ListContacts(srv.DB, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "A" || list[0].Seen {
		t.Fatalf("stored message wrong: %+v", list)
	}

	// all fields are required
	w = postForm(t, srv, "/contact", url.Values{"name": {"A"}}, nil)
	if !strings.Contains(w.Body.String(), `"fail"`) {
		t.Fatalf("incomplete form accepted: %s", w.Body.String())
	}
}

func TestRemoveArticleOwnership(t *testing.T) {
	srv := newTestServer(t)
	alice := insertAuthor(t, srv.DB, "alice", "secret")
	insertAuthor(t, srv.DB, "bob", "hunter2")

	id, err := models.CreateArticle(srv.DB, alice, models.ArticleFields{Title: "mine"})
	if err != nil {
		t.Fatal(err)
	}
	form := url.Values{"id": {strconv.FormatInt(id, 10)}}

	// anonymous callers get a failure payload, not a redirect
	w := postForm(t, srv, "/admin/remove", form, nil)
	if !strings.Contains(w.Body.String(), "rights") {
		t.Fatalf("anonymous remove: %s", w.Body.String())
	}

	bobCookie := loginAs(t, srv, "bob", "hunter2")
	w = postForm(t, srv, "/admin/remove", form, bobCookie)
	if !strings.Contains(w.Body.String(), `"fail"`) {
		t.Fatalf("cross-author remove: %s", w.Body.String())
	}
	if _, err := models.GetOwnArticle(srv.DB, id, alice); err != nil {
		t.Fatalf("article gone after foreign remove: %v", err)
	}

	aliceCookie := loginAs(t, srv, "alice", "secret")
	w = postForm(t, srv, "/admin/remove", form, aliceCookie)
	if !strings.Contains(w.Body.String(), `"success"`) {
		t.Fatalf("owner remove: %s", w.Body.String())
	}
}

func TestEditorPublishFlow(t *testing.T) {
	srv := newTestServer(t)
	alice := insertAuthor(t, srv.DB, "alice", "secret")
	cookie := loginAs(t, srv, "alice", "secret")

	// save as draft
	w := postForm(t, srv, "/admin/editor?m=new", url.Values{
		"title": {"hello"}, "subtitle": {"sub"}, "article": {"body"}, "btnval": {"1"},
	}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	drafts, _, err := models.ListByAuthor(srv.DB, alice, true, 1)
	if err != nil || len(drafts) != 1 {
		t.Fatalf("drafts: %v %d", err, len(drafts))
	}
	id := drafts[0].ID

	// publish it
	w = postForm(t, srv, "/admin/editor?m=edit", url.Values{
		"id": {strconv.FormatInt(id, 10)},
		"title": {"hello"}, "subtitle": {"sub"}, "article": {"body"}, "btnval": {"0"},
	}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("publish: %d %s", w.Code, w.Body.String())
	}

	public, _, err := models.ListPublished(srv.DB, 1, "", nil)
	if err != nil || len(public) != 1 || public[0].Title != "hello" {
		t.Fatalf("published listing: %v %+v", err, public)
	}

	if w := get(t, srv, "/post/"+strconv.FormatInt(id, 10), nil); w.Code != http.StatusOK {
		t.Fatalf("public post page: %d", w.Code)
	}
}

func TestMessageViewFlipsSeen(t *testing.T) {
	srv := newTestServer(t)
	insertAuthor(t, srv.DB, "alice", "secret")
	cookie := loginAs(t, srv, "alice", "secret")

	id, err := models.CreateContact(srv.DB, "A", "hi", "a@b.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if w := get(t, srv, "/admin/messages?show="+strconv.FormatInt(id, 10), cookie); w.Code != http.StatusOK {
		t.Fatalf("message view: %d", w.Code)
	}
	list, _, err := models.ListContacts(srv.DB, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !list[0].Seen {
		t.Fatal("viewing did not flip seen")
	}
}

func TestIndexRenders(t *testing.T) {
	srv := newTestServer(t)
	alice := insertAuthor(t, srv.DB, "alice", "secret")
	if _, err := models.CreateArticle(srv.DB, alice, models.ArticleFields{Title: "first post"}); err != nil {
		t.Fatal(err)
	}

	w := get(t, srv, "/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "first post") {
		t.Fatalf("index: %d", w.Code)
	}
}

func TestStaticCacheHeader(t *testing.T) {
	srv := newTestServer(t)
	w := get(t, srv, "/images/logo.png", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("static: %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != staticCacheControl {
		t.Fatalf("cache-control = %q", got)
	}
}
