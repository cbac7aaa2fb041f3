package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmcentral/farm_supply/internal/identity"
	"github.com/farmcentral/farm_supply/internal/logging"
	"github.com/farmcentral/farm_supply/internal/models"
)

const (
	LoginPath        = "/login"
	EmployeeHomePath = "/employees/home"
	FarmerHomePath   = "/farmers/home"
)

// Guard reproduces the navigation policy: no session redirects to the login
// page, the wrong role redirects to that role's own home page. The services
// enforce a hard deny independently; these redirects are UX, not the
// security boundary.
type Guard struct {
	Sessions *identity.SessionManager
	Resolver *identity.Resolver
}

// RequireLogin admits any resolved identity. A session token whose subject
// no longer matches a directory record is treated as anonymous.
func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, ok := g.resolve(c)
		if !ok {
			return c.Redirect(http.StatusFound, LoginPath)
		}
		setIdentityContext(c, ident)
		return next(c)
	}
}

func (g *Guard) RequireEmployee(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireRole(models.RoleEmployee, FarmerHomePath, next)
}

func (g *Guard) RequireFarmer(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireRole(models.RoleFarmer, EmployeeHomePath, next)
}

func (g *Guard) requireRole(role models.Role, otherHome string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, ok := g.resolve(c)
		if !ok {
			return c.Redirect(http.StatusFound, LoginPath)
		}
		if ident.Role != role {
			return c.Redirect(http.StatusFound, otherHome)
		}
		setIdentityContext(c, ident)
		return next(c)
	}
}

func (g *Guard) resolve(c echo.Context) (*identity.Identity, bool) {
	sess, err := g.Sessions.Read(c)
	if err != nil {
		return nil, false
	}

	ctx := c.Request().Context()
	ident, err := g.Resolver.Resolve(ctx, sess.UserToken)
	if err != nil {
		logging.FromContext(ctx).Warn("session downgraded to anonymous", "error", err)
		g.Sessions.Clear(c)
		return nil, false
	}

	// The timeout is idle, not absolute: every authenticated request
	// re-issues the cookie with a fresh expiry.
	if err := g.Sessions.Establish(c, *sess); err != nil {
		logging.FromContext(ctx).Warn("session refresh failed", "error", err)
	}
	return ident, true
}
