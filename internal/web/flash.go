package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookieName = "flash"

// flashCodec signs and verifies flash cookies with HMAC-SHA256.
type flashCodec struct {
	key []byte
}

func newFlashCodec(secret string) *flashCodec {
	return &flashCodec{key: []byte(secret)}
}

func (c *flashCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (c *flashCodec) encode(msg string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(msg))
	return payload + "." + c.sign(payload)
}

func (c *flashCodec) decode(value string) (string, bool) {
	payload, sig, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
		return "", false
	}
	msg, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	return string(msg), true
}

// set stores msg for the next page view.
func (c *flashCodec) set(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    c.encode(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// pop returns the pending flash message, if any, and clears the cookie.
// Cookies with a bad signature are dropped silently.
func (c *flashCodec) pop(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	msg, ok := c.decode(cookie.Value)
	if !ok {
		return ""
	}
	return msg
}
