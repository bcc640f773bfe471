// Package cookies implements the session-token cookie capability handed to
// the session lifecycle manager. Attributes follow the fixed policy:
// HttpOnly, SameSite=Lax, Path=/, Secure in production.
package cookies

import "net/http"

type Config struct {
	Name   string
	Secure bool
}

type SessionCookie struct {
	w   http.ResponseWriter
	r   *http.Request
	cfg Config
}

func NewSession(w http.ResponseWriter, r *http.Request, cfg Config) *SessionCookie {
	return &SessionCookie{w: w, r: r, cfg: cfg}
}

func (c *SessionCookie) Token() string {
	ck, err := c.r.Cookie(c.cfg.Name)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (c *SessionCookie) Set(token string, maxAge int) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *SessionCookie) Clear() {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Present reports whether the request carries a session cookie at all. The
// route guard uses this cheap existence check instead of a store lookup.
func Present(r *http.Request, name string) bool {
	_, err := r.Cookie(name)
	return err == nil
}
