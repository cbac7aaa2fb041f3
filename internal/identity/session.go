package identity

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/farmcentral/farm_supply/internal/models"
)

// SessionCookie carries the request-scoped identity between requests.
const SessionCookie = "fc_session"

// SessionTTL is the idle timeout of the session cookie. The guard re-issues
// the cookie on every authenticated request, so expiry slides with activity.
const SessionTTL = time.Hour

// Session is the single source of truth for request-scoped identity:
// Anonymous until Login establishes it, cleared atomically by Logout.
type Session struct {
	UserToken string      // opaque provider account id
	Role      models.Role
	Email     string
	AuthToken string // provider-issued auth token
}

type SessionManager struct {
	Secret []byte
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// Establish signs the session into the cookie: at login for the Anonymous ->
// Authenticated transition, and on guarded requests to slide the idle expiry.
func (m *SessionManager) Establish(c echo.Context, s Session) error {
	exp := time.Now().Add(SessionTTL)
	claims := jwt.MapClaims{
		"sub":   s.UserToken,
		"role":  int(s.Role),
		"email": s.Email,
		"tok":   s.AuthToken,
		"exp":   exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.Secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	c.SetCookie(CreateCookie(SessionCookie, signed, "/", exp))
	return nil
}

// Clear drops the session cookie. All session state lives in the cookie, so
// this is atomic.
func (m *SessionManager) Clear(c echo.Context) {
	c.SetCookie(CreateCookie(SessionCookie, "", "/", time.Unix(0, 0)))
}

// Read parses the session cookie. Any failure (missing, expired, forged,
// unknown role) means Anonymous.
func (m *SessionManager) Read(c echo.Context) (*Session, error) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return nil, fmt.Errorf("no session cookie")
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return m.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("cannot parse session claims")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	authToken, _ := claims["tok"].(string)
	roleNum, okRole := claims["role"].(float64)
	role := models.Role(int(roleNum))
	if sub == "" || !okRole || !role.Valid() {
		return nil, fmt.Errorf("malformed session claims")
	}

	return &Session{
		UserToken: sub,
		Role:      role,
		Email:     email,
		AuthToken: authToken,
	}, nil
}
