package transport

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "presence_session"
	userIDKey   = "user_id"
)

// Flash is a one-shot status message surfaced after a redirect.
// Category is either "success" or "error".
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// SessionManager wraps the cookie store used for login state and flashes.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

func (m *SessionManager) session(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, sessionName)
	return s
}

func (m *SessionManager) SetUserID(w http.ResponseWriter, r *http.Request, userID int64) error {
	s := m.session(r)
	s.Values[userIDKey] = userID
	return s.Save(r, w)
}

func (m *SessionManager) UserID(r *http.Request) (int64, bool) {
	s := m.session(r)
	id, ok := s.Values[userIDKey].(int64)
	return id, ok
}

func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	s := m.session(r)
	delete(s.Values, userIDKey)
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	s := m.session(r)
	s.AddFlash(Flash{Category: category, Message: message})
	_ = s.Save(r, w)
}

// Flashes drains pending flash messages. Reading flashes mutates the
// session, so it has to be saved before the response body is written.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.session(r)
	raw := s.Flashes()
	if len(raw) > 0 {
		_ = s.Save(r, w)
	}
	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
