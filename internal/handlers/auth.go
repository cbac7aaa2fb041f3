package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmcentral/farm_supply/internal/directory"
	"github.com/farmcentral/farm_supply/internal/identity"
	"github.com/farmcentral/farm_supply/internal/logging"
	"github.com/farmcentral/farm_supply/internal/middleware/auth"
	"github.com/farmcentral/farm_supply/internal/models"
)

type AuthHandler struct {
	Directory *directory.Service
	Sessions  *identity.SessionManager
}

// Register self-registers an employee and leaves the caller logged out, as
// the registration page does.
func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Status: "error", Message: "invalid request body"})
	}

	h.Sessions.Clear(c)

	ctx := c.Request().Context()
	employee, err := h.Directory.RegisterEmployee(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, employee)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Status: "error", Message: "invalid request body"})
	}

	ctx := c.Request().Context()
	res, err := h.Directory.Login(ctx, req.Email, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	sess := identity.Session{
		UserToken: res.ProviderID,
		Role:      res.Role,
		Email:     res.Email,
		AuthToken: res.AuthToken,
	}
	if err := h.Sessions.Establish(c, sess); err != nil {
		logging.FromContext(ctx).Error("login_failed", "reason", "cannot establish session", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorBody{
			Status:  "error",
			Message: "A server error occurred. Please try again later.",
		})
	}

	redirect := auth.EmployeeHomePath
	if res.Role == models.RoleFarmer {
		redirect = auth.FarmerHomePath
		if res.MustChangePassword {
			redirect = "/api/v1/farmers/password"
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"role":                 res.Role.String(),
		"email":                res.Email,
		"must_change_password": res.MustChangePassword,
		"redirect":             redirect,
	})
}

// Logout clears the session atomically; there is nothing else to tear down.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.Clear(c)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
