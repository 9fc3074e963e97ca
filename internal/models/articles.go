package models

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// ArticlesPerPage is the fixed window for both the public listing and the
// admin post/draft listings.
const ArticlesPerPage = 5

// pageWindow computes the offset/page-count pair for the windowed
// pagination used everywhere in this app: rows are fetched in ascending
// order starting at offset = max(0, total - pageSize*page), then reversed,
// so page 1 is the newest window and higher pages walk back in time.
func pageWindow(total, pageSize, page int) (offset, pages int) {
	if page < 1 {
		page = 1
	}
	offset = total - pageSize*page
	if offset < 0 {
		offset = 0
	}
	pages = (total + pageSize - 1) / pageSize
	return offset, pages
}

func reverse[S ~[]E, E any](s S) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// ListPublished returns one page of published articles, newest first, plus
// the total page count. search matches title or body case-insensitively;
// authorID restricts to one author. Both filters apply to the count query
// and the page query alike so the page count stays consistent.
func ListPublished(db *sql.DB, page int, search string, authorID *int64) ([]ArticleSummary, int, error) {
	where := []string{"a.draft = 0"}
	args := []any{}
	if search != "" {
		where = append(where, "(a.title LIKE ? OR a.article LIKE ?)")
		pat := "%" + search + "%"
		args = append(args, pat, pat)
	}
	if authorID != nil {
		where = append(where, "a.author_id = ?")
		args = append(args, *authorID)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRow(`SELECT COUNT(a.id) FROM articles a WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	offset, pages := pageWindow(total, ArticlesPerPage, page)

	rows, err := db.Query(`SELECT a.id, a.title, a.subtitle, a.created_on, au.username, au.id
        FROM articles a LEFT JOIN authors au ON au.id = a.author_id
        WHERE `+cond+`
        ORDER BY a.created_on, a.id LIMIT ? OFFSET ?`,
		append(args, ArticlesPerPage, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []ArticleSummary
	for rows.Next() {
		var s ArticleSummary
		var username sql.NullString
		var aid sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Title, &s.Subtitle, &s.CreatedOn, &username, &aid); err != nil {
			return nil, 0, err
		}
		if username.Valid {
			s.Username = &username.String
		}
		if aid.Valid {
			s.AuthorID = &aid.Int64
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	reverse(list)
	return list, pages, nil
}

// ListByAuthor returns one page of the author's own articles, split by
// draft status, using the same windowed pagination as ListPublished.
func ListByAuthor(db *sql.DB, authorID int64, draft bool, page int) ([]ArticleRef, int, error) {
	var total int
	err := db.QueryRow(`SELECT COUNT(id) FROM articles WHERE author_id = ? AND draft = ?`,
		authorID, draft).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	offset, pages := pageWindow(total, ArticlesPerPage, page)

	rows, err := db.Query(`SELECT id, title, created_on FROM articles
        WHERE author_id = ? AND draft = ?
        ORDER BY created_on, id LIMIT ? OFFSET ?`,
		authorID, draft, ArticlesPerPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []ArticleRef
	for rows.Next() {
		var ref ArticleRef
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.CreatedOn); err != nil {
			return nil, 0, err
		}
		list = append(list, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	reverse(list)
	return list, pages, nil
}

// GetArticle fetches a single article joined with its author.
func GetArticle(db *sql.DB, id int64) (*ArticleView, error) {
	row := db.QueryRow(`SELECT a.id, a.title, a.subtitle, a.header_image, a.article,
        a.draft, a.category_id, a.author_id, a.created_on, a.updated_on, au.username
        FROM articles a LEFT JOIN authors au ON au.id = a.author_id
        WHERE a.id = ?`, id)
	var v ArticleView
	var authorID sql.NullInt64
	var username sql.NullString
	err := row.Scan(&v.ID, &v.Title, &v.Subtitle, &v.HeaderImage, &v.Body,
		&v.Draft, &v.CategoryID, &authorID, &v.CreatedOn, &v.UpdatedOn, &username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if authorID.Valid {
		v.AuthorID = &authorID.Int64
	}
	if username.Valid {
		v.Username = &username.String
	}
	return &v, nil
}

// GetOwnArticle fetches an article for the editor; a row owned by another
// author reads as missing.
func GetOwnArticle(db *sql.DB, id, authorID int64) (*Article, error) {
	row := db.QueryRow(`SELECT id, title, subtitle, header_image, article, draft,
        category_id, author_id, created_on, updated_on
        FROM articles WHERE id = ? AND author_id = ?`, id, authorID)
	var a Article
	var aid sql.NullInt64
	err := row.Scan(&a.ID, &a.Title, &a.Subtitle, &a.HeaderImage, &a.Body,
		&a.Draft, &a.CategoryID, &aid, &a.CreatedOn, &a.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if aid.Valid {
		a.AuthorID = &aid.Int64
	}
	return &a, nil
}

// ArticleFields carries the editor form fields for a create or update.
type ArticleFields struct {
	Title       string
	Subtitle    string
	HeaderImage string
	Body        string
	Draft       bool
	CategoryID  int64
}

// CreateArticle inserts a new article owned by authorID. A zero category
// falls back to the default category.
func CreateArticle(db *sql.DB, authorID int64, f ArticleFields) (int64, error) {
	if f.CategoryID == 0 {
		f.CategoryID = 1
	}
	now := time.Now()
	res, err := db.Exec(`INSERT INTO articles
        (title, subtitle, header_image, article, draft, category_id, author_id, created_on, updated_on)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Title, f.Subtitle, f.HeaderImage, f.Body, f.Draft, f.CategoryID, authorID, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateArticle applies the submitted fields to an article the caller owns.
// The ownership check and the write happen in one transaction. When a draft
// transitions to published, created_on is reset to the current time so the
// post is dated by its publish moment.
func UpdateArticle(db *sql.DB, id, authorID int64, f ArticleFields) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var wasDraft bool
	err = tx.QueryRow(`SELECT draft FROM articles WHERE id = ? AND author_id = ?`,
		id, authorID).Scan(&wasDraft)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	now := time.Now()
	if wasDraft && wasDraft != f.Draft {
		_, err = tx.Exec(`UPDATE articles SET title = ?, subtitle = ?, header_image = ?,
            article = ?, draft = ?, created_on = ?, updated_on = ? WHERE id = ?`,
			f.Title, f.Subtitle, f.HeaderImage, f.Body, f.Draft, now, now, id)
	} else {
		_, err = tx.Exec(`UPDATE articles SET title = ?, subtitle = ?, header_image = ?,
            article = ?, draft = ?, updated_on = ? WHERE id = ?`,
			f.Title, f.Subtitle, f.HeaderImage, f.Body, f.Draft, now, id)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteArticle removes an article the caller owns. A missing or
// foreign-owned row is ErrNotFound either way.
func DeleteArticle(db *sql.DB, id, authorID int64) error {
	res, err := db.Exec(`DELETE FROM articles WHERE id = ? AND author_id = ?`, id, authorID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
