package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// SessionCookie is the name of the signed session cookie.
	SessionCookie = "sessid"

	// sessionMaxAge bounds cookie validity; the cutoff is enforced by the
	// signed issue time, not just the cookie attribute.
	sessionMaxAge = 604800 * time.Second
)

// signToken wraps the session token and its issue time in an HMAC-SHA256
// signed cookie value: base64url(token|issuedUnix).base64url(mac).
func signToken(secret []byte, token string, now time.Time) string {
	payload := fmt.Sprintf("%s|%d", token, now.Unix())
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		"." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verifyToken checks the signature and the embedded issue time and returns
// the session token. A malformed value, a bad MAC, or an expired issue time
// all read as no session.
func verifyToken(secret []byte, value string, now time.Time) (string, bool) {
	payloadPart, macPart, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}
	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return "", false
	}
	sig, err := base64.RawURLEncoding.DecodeString(macPart)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", false
	}

	token, issuedStr, ok := strings.Cut(string(payload), "|")
	if !ok || token == "" {
		return "", false
	}
	issued, err := strconv.ParseInt(issuedStr, 10, 64)
	if err != nil {
		return "", false
	}
	if now.Sub(time.Unix(issued, 0)) > sessionMaxAge {
		return "", false
	}
	return token, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    signToken(s.secret, token, s.now()),
		Path:     "/",
		MaxAge:   int(sessionMaxAge / time.Second),
		HttpOnly: true,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
