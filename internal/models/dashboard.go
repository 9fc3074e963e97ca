package models

import (
	"database/sql"
	"errors"
	"time"
)

// ArticlePreview is a dashboard teaser for the latest post or draft.
type ArticlePreview struct {
	Title     string
	Body      string
	CreatedOn time.Time
}

// ContactPreview is a dashboard teaser for the newest message.
type ContactPreview struct {
	Email     string
	Message   string
	CreatedOn time.Time
}

// Dashboard aggregates the counters and teasers shown on the admin index.
type Dashboard struct {
	PublishedCount    int
	DraftCount        int
	TotalMessages     int
	UnseenMessages    int
	LatestPost        *ArticlePreview
	LatestDraft       *ArticlePreview
	NewestMessage     *ContactPreview
	NewestSeenMessage *ContactPreview
}

// LoadDashboard runs the admin index queries. Teasers are nil when the
// corresponding table slice is empty.
func LoadDashboard(db *sql.DB) (*Dashboard, error) {
	var d Dashboard

	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(id) FROM articles WHERE draft = 0`, &d.PublishedCount},
		{`SELECT COUNT(id) FROM articles WHERE draft = 1`, &d.DraftCount},
		{`SELECT COUNT(id) FROM contact`, &d.TotalMessages},
		{`SELECT COUNT(id) FROM contact WHERE seen = 0`, &d.UnseenMessages},
	}
	for _, c := range counts {
		if err := db.QueryRow(c.query).Scan(c.dst); err != nil {
			return nil, err
		}
	}

	var err error
	if d.LatestPost, err = latestArticle(db, false); err != nil {
		return nil, err
	}
	if d.LatestDraft, err = latestArticle(db, true); err != nil {
		return nil, err
	}
	if d.NewestMessage, err = newestContact(db, false); err != nil {
		return nil, err
	}
	if d.NewestSeenMessage, err = newestContact(db, true); err != nil {
		return nil, err
	}
	return &d, nil
}

func latestArticle(db *sql.DB, draft bool) (*ArticlePreview, error) {
	row := db.QueryRow(`SELECT title, article, created_on FROM articles
        WHERE draft = ? ORDER BY id DESC LIMIT 1`, draft)
	var p ArticlePreview
	err := row.Scan(&p.Title, &p.Body, &p.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func newestContact(db *sql.DB, seen bool) (*ContactPreview, error) {
	row := db.QueryRow(`SELECT email, message, created_on FROM contact
        WHERE seen = ? ORDER BY id DESC LIMIT 1`, seen)
	var p ContactPreview
	err := row.Scan(&p.Email, &p.Message, &p.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
