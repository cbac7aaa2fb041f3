package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmcentral/farm_supply/internal/handlers"
	"github.com/farmcentral/farm_supply/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	FarmerHandler  *handlers.FarmerHandler
	ProductHandler *handlers.ProductHandler
	Guard          *auth.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET(auth.LoginPath, func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "please log in"})
	})

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	e.GET(auth.EmployeeHomePath, handlers.EmployeeHome, d.Guard.RequireEmployee)
	e.GET(auth.FarmerHomePath, d.FarmerHandler.Home, d.Guard.RequireFarmer)

	farmers := v1.Group("/farmers")
	farmers.POST("", d.FarmerHandler.Create, d.Guard.RequireEmployee)
	farmers.POST("/password", d.FarmerHandler.ChangePassword, d.Guard.RequireFarmer)

	products := v1.Group("/products", d.Guard.RequireLogin)
	products.GET("", d.ProductHandler.List)
	products.POST("", d.ProductHandler.Create, d.Guard.RequireFarmer)
	products.GET("/filter", d.ProductHandler.Filter)
	products.GET("/types", d.ProductHandler.Types)
	products.GET("/search", d.ProductHandler.Search)
}
