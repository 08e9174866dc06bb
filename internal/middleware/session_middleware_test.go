package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/sessions"

	"github.com/decred/slog"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeSessions struct {
	uid string
	err error
}

func (f fakeSessions) GetSessionUserID(http.ResponseWriter, *http.Request) (string, error) {
	return f.uid, f.err
}

type fakeUsers map[string]*model.User

func (f fakeUsers) GetUser(_ context.Context, id string) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func serve(sess SessionReader, users UserLoader, guard echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	h := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	if guard != nil {
		e.GET("/", h, LoadSessionUser(sess, users), guard)
	} else {
		e.GET("/", h, LoadSessionUser(sess, users))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestRequireAuth(t *testing.T) {
	users := fakeUsers{"u1": {ID: "u1"}}

	rec := serve(fakeSessions{uid: "u1"}, users, RequireAuth)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(fakeSessions{err: sessions.ErrSessionNotFound}, users, RequireAuth)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(fakeSessions{uid: "gone"}, users, RequireAuth)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	users := fakeUsers{
		"admin":  {ID: "admin", Admin: true},
		"member": {ID: "member"},
	}

	assert.Equal(t, http.StatusOK, serve(fakeSessions{uid: "admin"}, users, AdminOnly).Code)
	assert.Equal(t, http.StatusForbidden, serve(fakeSessions{uid: "member"}, users, AdminOnly).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(fakeSessions{err: sessions.ErrSessionNotFound}, users, AdminOnly).Code)
}

func TestLoadSessionUserPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	UseLogger(slog.NewBackend(&buf).Logger("MDLW"))
	t.Cleanup(func() { UseLogger(slog.Disabled) })

	rec := serve(fakeSessions{err: errors.New("redis down")}, fakeUsers{}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "[ERR] MDLW: Session lookup: redis down")

	buf.Reset()
	rec = serve(fakeSessions{uid: "gone"}, fakeUsers{}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "[WRN] MDLW: Session user gone")

	buf.Reset()
	serve(fakeSessions{err: sessions.ErrSessionNotFound}, fakeUsers{}, nil)
	assert.Empty(t, buf.String())
}
