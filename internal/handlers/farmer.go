package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmcentral/farm_supply/internal/directory"
	"github.com/farmcentral/farm_supply/internal/middleware/auth"
)

type FarmerHandler struct {
	Directory *directory.Service
}

// Create provisions a farmer. The route is employee-gated; the service
// checks the role again on its own.
func (h *FarmerHandler) Create(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Status: "error", Message: "invalid request body"})
	}

	ident := auth.IdentityFromContext(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}

	ctx := c.Request().Context()
	farmer, err := h.Directory.CreateFarmer(ctx, ident.Role, req.Name, req.Address, req.Phone, req.Email)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, farmer)
}

// ChangePassword rotates the calling farmer's password. Farmers land here on
// first login while the temporary password is still set.
func (h *FarmerHandler) ChangePassword(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Status: "error", Message: "invalid request body"})
	}

	ident := auth.IdentityFromContext(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}

	ctx := c.Request().Context()
	if err := h.Directory.ChangeFarmerPassword(ctx, ident.Role, ident.ProviderID, req.Password); err != nil {
		return errorResponse(c, err)
	}

	// The farmer logs in again with the new password.
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "redirect": auth.LoginPath})
}

// Home is the farmer landing payload.
func (h *FarmerHandler) Home(c echo.Context) error {
	ident := auth.IdentityFromContext(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"role":  ident.Role.String(),
		"email": ident.Email,
		"name":  ident.Name,
	})
}

// EmployeeHome is the employee landing payload.
func EmployeeHome(c echo.Context) error {
	ident := auth.IdentityFromContext(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"role":  ident.Role.String(),
		"email": ident.Email,
		"name":  ident.Name,
	})
}
