package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/farmcentral/farm_supply/internal/identity"
)

const identityKey = "identity"

func setIdentityContext(c echo.Context, ident *identity.Identity) {
	c.Set(identityKey, ident)
}

// IdentityFromContext returns the identity the guard resolved for this
// request, nil on unguarded routes.
func IdentityFromContext(c echo.Context) *identity.Identity {
	if v := c.Get(identityKey); v != nil {
		if ident, ok := v.(*identity.Identity); ok {
			return ident
		}
	}
	return nil
}
