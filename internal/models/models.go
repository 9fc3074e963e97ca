package models

import (
	"errors"
	"time"
)

var (
	// ErrNotFound covers both a missing row and a row the caller does not
	// own; the two are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrEmptyUpdate is returned when a settings update carries no fields.
	ErrEmptyUpdate = errors.New("nothing to update")
)

type Article struct {
	ID          int64
	Title       string
	Subtitle    string
	HeaderImage string
	Body        string
	Draft       bool
	CategoryID  int64
	AuthorID    *int64
	CreatedOn   time.Time
	UpdatedOn   time.Time
}

// ArticleSummary is a public listing row. Author fields are nil when the
// article's author reference is missing (outer join).
type ArticleSummary struct {
	ID        int64
	Title     string
	Subtitle  string
	CreatedOn time.Time
	Username  *string
	AuthorID  *int64
}

// ArticleRef is an admin listing row.
type ArticleRef struct {
	ID        int64
	Title     string
	CreatedOn time.Time
}

// ArticleView is a single article joined with its author, if any.
type ArticleView struct {
	Article
	Username *string
}

type Author struct {
	ID        int64
	Username  string
	Firstname string
	Lastname  string
	Password  string
	Email     string
	SessionID *string
	CreatedOn time.Time
	UpdatedOn time.Time
}

// AuthorRef identifies an authenticated author.
type AuthorRef struct {
	ID       int64
	Username string
}

type Category struct {
	ID        int64
	Name      string
	CreatedOn time.Time
}

type Contact struct {
	ID        int64
	Name      string
	Message   string
	Email     string
	GuestIP   *string
	Seen      bool
	CreatedOn time.Time
}

type Settings struct {
	ID          int64
	SiteName    string
	SiteSubname string
	UpdatedOn   time.Time
}
