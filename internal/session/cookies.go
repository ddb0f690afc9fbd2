package session

import (
	"net/http"
	"strings"
)

const (
	// MarkerCookie is readable by page scripts. It is a hint, never a credential.
	MarkerCookie = "isLogged"
	SIDCookie    = "rentx_sid"
)

// IsSecure reports whether the request reached us over TLS, directly or through a
// terminating proxy.
func IsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// Both cookies are session cookies: no Expires and no Max-Age.
func setMarker(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     MarkerCookie,
		Value:    "true",
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
		Secure:   IsSecure(r),
	})
}

func setSID(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SIDCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   IsSecure(r),
	})
}

// ClearCookies expires both the marker and the sid cookie.
func ClearCookies(w http.ResponseWriter, r *http.Request) {
	secure := IsSecure(r)
	http.SetCookie(w, &http.Cookie{
		Name:     MarkerCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     SIDCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
	})
}

func readSID(r *http.Request) string {
	c, err := r.Cookie(SIDCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
