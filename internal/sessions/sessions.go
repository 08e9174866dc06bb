package sessions

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "ssc.sid"

	// SessionMaxAge is the max age for a session in seconds.
	SessionMaxAge = 86400 // One day

	sessionValueUserID    = "user_id"
	sessionValueCreatedAt = "created_at"
)

var (
	// ErrSessionNotFound is returned when a request carries no live
	// session.
	ErrSessionNotFound = errors.New("session not found")
)

// Sessions manages user sessions.
type Sessions struct {
	store *Store
	now   func() time.Time
}

// Options returns the cookie options for the session cookie. Secure cookies
// are sent cross site so the web client on another origin can log in.
func Options(secure bool) *sessions.Options {
	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   SessionMaxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	}
	return opts
}

// New returns a Sessions manager whose cookies are authenticated with a key
// derived from secret.
func New(db DB, secret string, secure bool) *Sessions {
	key := sha256.Sum256([]byte(secret))
	return &Sessions{
		store: NewStore(db, Options(secure), key[:]),
		now:   time.Now,
	}
}

func (s *Sessions) expired(session *sessions.Session) bool {
	createdAt, ok := session.Values[sessionValueCreatedAt].(int64)
	if !ok {
		return true
	}
	return s.now().Unix() > createdAt+int64(session.Options.MaxAge)
}

// GetSession returns the session for the request cookie, or a new unsaved
// session when there is none.
func (s *Sessions) GetSession(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, CookieName)
}

// GetSessionUserID returns the user ID of the session. ErrSessionNotFound is
// returned when the request has no live session.
func (s *Sessions) GetSessionUserID(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := s.GetSession(r)
	if err != nil {
		// A cookie signed with another key is the same as no cookie.
		log.Debugf("Invalid session cookie: %v", err)
		return "", ErrSessionNotFound
	}
	if session.IsNew {
		return "", ErrSessionNotFound
	}

	if s.expired(session) {
		log.Debug("Session is expired")
		session.Options.MaxAge = -1
		if err := s.store.Save(r, w, session); err != nil {
			log.Errorf("Delete expired session: %v", err)
		}
		return "", ErrSessionNotFound
	}

	uid, ok := session.Values[sessionValueUserID].(string)
	if !ok || uid == "" {
		return "", ErrSessionNotFound
	}
	return uid, nil
}

// NewSession starts a session for userID, saves it and sets the cookie.
func (s *Sessions) NewSession(w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := s.GetSession(r)
	if err != nil && session == nil {
		return err
	}

	session.Values[sessionValueCreatedAt] = s.now().Unix()
	session.Values[sessionValueUserID] = userID

	log.Debugf("Session created for user %v", userID)
	return s.store.Save(r, w, session)
}

// DelSession removes the request's session from the store and clears the
// cookie.
func (s *Sessions) DelSession(w http.ResponseWriter, r *http.Request) error {
	session, err := s.GetSession(r)
	if err != nil {
		return ErrSessionNotFound
	}
	if session.IsNew {
		return ErrSessionNotFound
	}

	log.Debugf("Deleting user session %v", session.Values[sessionValueUserID])

	session.Options.MaxAge = -1
	return s.store.Save(r, w, session)
}
