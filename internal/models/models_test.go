package models_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/FZX/DummyBlog/internal/db"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
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

func insertArticle(t *testing.T, database *sql.DB, authorID any, title string, draft bool, createdOn time.Time) int64 {
	t.Helper()
	res, err := database.Exec(`INSERT INTO articles
        (title, subtitle, article, draft, author_id, created_on, updated_on)
        VALUES (?, '', ?, ?, ?, ?, ?)`,
		title, "body of "+title, draft, authorID, createdOn, createdOn)
	if err != nil {
		t.Fatalf("insert article: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}
