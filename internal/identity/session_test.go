package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmcentral/farm_supply/internal/models"
)

func newEchoContext(t *testing.T, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	m := &SessionManager{Secret: []byte("test-session-secret")}

	c, rec := newEchoContext(t, nil)
	want := Session{
		UserToken: "acct-1",
		Role:      models.RoleFarmer,
		Email:     "jan@farmcentral.com",
		AuthToken: "provider-token",
	}
	require.NoError(t, m.Establish(c, want))

	cookie := sessionCookieFrom(t, rec)
	assert.True(t, cookie.HttpOnly)
	require.NotEmpty(t, cookie.Value)

	c, _ = newEchoContext(t, cookie)
	got, err := m.Read(c)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestSessionReadRejectsBadInput(t *testing.T) {
	m := &SessionManager{Secret: []byte("test-session-secret")}

	t.Run("no cookie", func(t *testing.T) {
		c, _ := newEchoContext(t, nil)
		_, err := m.Read(c)
		assert.Error(t, err)
	})

	t.Run("garbage value", func(t *testing.T) {
		c, _ := newEchoContext(t, &http.Cookie{Name: SessionCookie, Value: "not-a-token"})
		_, err := m.Read(c)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		c, rec := newEchoContext(t, nil)
		require.NoError(t, m.Establish(c, Session{
			UserToken: "acct-1", Role: models.RoleEmployee, Email: "sam@farmcentral.com",
		}))

		other := &SessionManager{Secret: []byte("other-secret")}
		c, _ = newEchoContext(t, sessionCookieFrom(t, rec))
		_, err := other.Read(c)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		c, rec := newEchoContext(t, nil)
		require.NoError(t, m.Establish(c, Session{
			UserToken: "acct-1", Role: models.Role(9), Email: "sam@farmcentral.com",
		}))

		c, _ = newEchoContext(t, sessionCookieFrom(t, rec))
		_, err := m.Read(c)
		assert.Error(t, err)
	})
}

func TestClearDropsCookie(t *testing.T) {
	m := &SessionManager{Secret: []byte("test-session-secret")}

	c, rec := newEchoContext(t, nil)
	m.Clear(c)

	cookie := sessionCookieFrom(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}
