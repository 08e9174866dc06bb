/*
Package sessions implements cookie sessions on top of gorilla/sessions with
a server side store.

Only the session ID travels in the cookie, signed with gorilla/securecookie.
The session values are encoded with the same codecs and kept in a DB keyed by
the session ID, which is redis in production and an in-memory map in tests
and development.

Callers normally use the Sessions manager: NewSession after a successful
login, GetSessionUserID on authenticated requests and DelSession on logout.
*/
package sessions
