package sessions

import (
	"encoding/base32"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// Store is a sessions.Store that keeps session values in a DB and only the
// signed session ID in the cookie.
type Store struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options
	db      DB
}

var _ sessions.Store = (*Store)(nil)

// newSessionID returns a 32 byte base32 string with padding, the same shape
// the gorilla/sessions reference stores use.
func newSessionID() string {
	return base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
}

// Get returns a session for the given name after adding it to the registry.
//
// A new session is returned if the given session doesn't exist. Access IsNew
// on the session to check if it is an existing session or a new one.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns a session for the given name without adding it to the
// registry. It never returns a nil session, even with an error.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true
	session.ID = newSessionID()

	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return session, nil
	} else if err != nil {
		return session, err
	}

	// The cookie carries the encoded session ID.
	err = securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...)
	if err != nil {
		return session, err
	}

	encoded, err := s.db.Get(r.Context(), session.ID)
	switch {
	case err == nil:
		session.IsNew = false
		err = securecookie.DecodeMulti(session.Name(), encoded.Values,
			&session.Values, s.Codecs...)
		if err != nil {
			return session, err
		}
	case errors.Is(err, ErrNotFound):
		// Expired or deleted; hand back the fresh session.
	default:
		return session, err
	}

	return session, nil
}

// Save writes the session values to the DB and the encoded session ID to the
// response cookie. A MaxAge <= 0 deletes the session instead.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge <= 0 {
		if err := s.db.Del(r.Context(), session.ID); err != nil {
			return err
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	encodedValues, err := securecookie.EncodeMulti(session.Name(),
		session.Values, s.Codecs...)
	if err != nil {
		return err
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	err = s.db.Save(r.Context(), session.ID, EncodedSession{Values: encodedValues}, ttl)
	if err != nil {
		return err
	}

	encodedID, err := securecookie.EncodeMulti(session.Name(), session.ID,
		s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encodedID, session.Options))
	return nil
}

// NewStore returns a Store using db for session values.
//
// Keys are defined in pairs to allow key rotation. The first key in a pair is
// used for authentication and the second, optional one for encryption.
func NewStore(db DB, opts *sessions.Options, keyPairs ...[]byte) *Store {
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, codec := range codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(opts.MaxAge)
		}
	}
	return &Store{
		Codecs:  codecs,
		Options: opts,
		db:      db,
	}
}
