package models

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthorBySession resolves a verified session token to an author. Each
// author holds at most one live token, so an exact match is the whole
// check.
func AuthorBySession(db *sql.DB, token string) (*AuthorRef, error) {
	row := db.QueryRow(`SELECT id, username FROM authors WHERE session_id = ?`, token)
	var ref AuthorRef
	err := row.Scan(&ref.ID, &ref.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Login checks the credentials and, on success, stores a fresh session
// token on the author row, replacing any previous one. The failure is the
// same ErrInvalidCredentials whether the username or the password was
// wrong.
func Login(db *sql.DB, username, password string) (*AuthorRef, string, error) {
	row := db.QueryRow(`SELECT id, username, password FROM authors WHERE username = ?`, username)
	var ref AuthorRef
	var hash string
	err := row.Scan(&ref.ID, &ref.Username, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	if _, err := db.Exec(`UPDATE authors SET session_id = ?, updated_on = ? WHERE id = ?`,
		token, time.Now(), ref.ID); err != nil {
		return nil, "", err
	}
	return &ref, token, nil
}

// RotateSession replaces the author's stored token with a fresh random
// value, so any outstanding cookie stops authenticating.
func RotateSession(db *sql.DB, authorID int64) error {
	_, err := db.Exec(`UPDATE authors SET session_id = ?, updated_on = ? WHERE id = ?`,
		uuid.NewString(), time.Now(), authorID)
	return err
}

// GetAuthor fetches the full author row for the settings page.
func GetAuthor(db *sql.DB, id int64) (*Author, error) {
	row := db.QueryRow(`SELECT id, username, firstname, lastname, password, email,
        session_id, created_on, updated_on FROM authors WHERE id = ?`, id)
	var a Author
	var sess sql.NullString
	err := row.Scan(&a.ID, &a.Username, &a.Firstname, &a.Lastname, &a.Password,
		&a.Email, &sess, &a.CreatedOn, &a.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.Valid {
		a.SessionID = &sess.String
	}
	return &a, nil
}

// AuthorUpdate carries the settings form. Empty fields are left unchanged.
type AuthorUpdate struct {
	Firstname   string
	Lastname    string
	Username    string
	Email       string
	OldPassword string
	NewPassword string
}

func (u AuthorUpdate) empty() bool {
	return u.Firstname == "" && u.Lastname == "" && u.Username == "" &&
		u.Email == "" && u.OldPassword == "" && u.NewPassword == ""
}

// UpdateAuthor applies the non-empty fields of u to the author. A password
// change requires the old password to verify and a non-empty new password;
// otherwise the whole update is abandoned.
func UpdateAuthor(db *sql.DB, id int64, u AuthorUpdate) error {
	if u.empty() {
		return ErrEmptyUpdate
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var a Author
	err = tx.QueryRow(`SELECT username, firstname, lastname, password, email
        FROM authors WHERE id = ?`, id).
		Scan(&a.Username, &a.Firstname, &a.Lastname, &a.Password, &a.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if u.Firstname != "" {
		a.Firstname = u.Firstname
	}
	if u.Lastname != "" {
		a.Lastname = u.Lastname
	}
	if u.Username != "" {
		a.Username = u.Username
	}
	if u.Email != "" {
		a.Email = u.Email
	}
	if u.OldPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(u.OldPassword)) != nil {
			return ErrInvalidCredentials
		}
		if u.NewPassword == "" {
			return ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		a.Password = string(hash)
	}

	_, err = tx.Exec(`UPDATE authors SET username = ?, firstname = ?, lastname = ?,
        password = ?, email = ?, updated_on = ? WHERE id = ?`,
		a.Username, a.Firstname, a.Lastname, a.Password, a.Email, time.Now(), id)
	if err != nil {
		return err
	}
	return tx.Commit()
}
