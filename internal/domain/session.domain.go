package domain

import (
	"net/http"
	"time"
)

// Session is the server-side record behind the signed sid cookie. It carries the
// backend credentials the admin obtained at sign-in.
type Session struct {
	ID         string          `json:"id"`
	User       SessionUser     `json:"user"`
	Cookies    []BackendCookie `json:"cookies"`
	Flash      *Flash          `json:"flash,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	VerifiedAt time.Time       `json:"verified_at"`
}

type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Key identifies the admin across sessions and tabs.
func (u SessionUser) Key() string {
	if u.ID != "" {
		return u.ID
	}
	return u.Email
}

// VerifiedWithin reports whether the backend confirmed the session less than ttl ago.
func (s *Session) VerifiedWithin(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 || s.VerifiedAt.IsZero() {
		return false
	}
	return now.Sub(s.VerifiedAt) < ttl
}

// BackendCookie is the persisted subset of a cookie set by the RentX backend.
type BackendCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

func CookiesFromHTTP(in []*http.Cookie) []BackendCookie {
	out := make([]BackendCookie, 0, len(in))
	for _, c := range in {
		if c == nil || c.Name == "" {
			continue
		}
		bc := BackendCookie{Name: c.Name, Value: c.Value}
		if !c.Expires.IsZero() {
			bc.Expires = c.Expires.UTC()
		}
		out = append(out, bc)
	}
	return out
}

// HTTPCookies returns the cookies still valid at now, ready to attach to a request.
func HTTPCookies(in []BackendCookie, now time.Time) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(in))
	for _, c := range in {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashError   FlashLevel = "error"
)

// Flash is a one-shot notice rendered as the inline banner of the next page.
type Flash struct {
	Level   FlashLevel `json:"level"`
	Message string     `json:"message"`
}
