package models

import (
	"database/sql"
	"errors"
	"time"
)

// MessagesPerPage is the fixed window for the admin message inbox.
const MessagesPerPage = 10

// CreateContact records a visitor message. guestIP is best-effort and may
// be empty.
func CreateContact(db *sql.DB, name, message, email, guestIP string) (int64, error) {
	var ip any
	if guestIP != "" {
		ip = guestIP
	}
	res, err := db.Exec(`INSERT INTO contact (name, message, email, guest_ip, seen, created_on)
        VALUES (?, ?, ?, ?, 0, ?)`, name, message, email, ip, time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListContacts returns one page of messages, newest first, with the same
// windowed pagination as the article listings.
func ListContacts(db *sql.DB, page int) ([]Contact, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(id) FROM contact`).Scan(&total); err != nil {
		return nil, 0, err
	}
	offset, pages := pageWindow(total, MessagesPerPage, page)

	rows, err := db.Query(`SELECT id, name, message, email, guest_ip, seen, created_on
        FROM contact ORDER BY id LIMIT ? OFFSET ?`, MessagesPerPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	reverse(list)
	return list, pages, nil
}

// GetContact fetches one message and marks it seen as a side effect of the
// read. That mirrors the admin UI, which has no separate mark-as-read
// action.
func GetContact(db *sql.DB, id int64) (*Contact, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT id, name, message, email, guest_ip, seen, created_on
        FROM contact WHERE id = ?`, id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !c.Seen {
		if _, err := tx.Exec(`UPDATE contact SET seen = 1 WHERE id = ?`, id); err != nil {
			return nil, err
		}
		c.Seen = true
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteContact removes a message. Any authenticated author may delete any
// message; there is no ownership on the inbox.
func DeleteContact(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM contact WHERE id = ?`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*Contact, error) {
	var c Contact
	var ip sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Message, &c.Email, &ip, &c.Seen, &c.CreatedOn); err != nil {
		return nil, err
	}
	if ip.Valid {
		c.GuestIP = &ip.String
	}
	return &c, nil
}
