package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/farmcentral/farm_supply/internal/catalog"
	"github.com/farmcentral/farm_supply/internal/directory"
	"github.com/farmcentral/farm_supply/internal/filter"
	"github.com/farmcentral/farm_supply/internal/logging"
	"github.com/farmcentral/farm_supply/internal/middleware/auth"
	"github.com/farmcentral/farm_supply/internal/models"
	"github.com/farmcentral/farm_supply/internal/service/search"
	"github.com/farmcentral/farm_supply/internal/util"
)

type ProductHandler struct {
	Catalog   *catalog.Service
	Directory *directory.Repo
	ES        *elasticsearch.Client
	Index     string
}

// List returns the role-scoped product listing: every farmer's products for
// an employee, only their own for a farmer.
func (h *ProductHandler) List(c echo.Context) error {
	ident := auth.IdentityFromContext(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}
	ctx := c.Request().Context()

	seed, err := h.seed(c, ident.Role, ident.Email)
	if err != nil {
		return errorResponse(c, err)
	}

	views, err := h.Catalog.Views(ctx, seed)
	if err != nil {
		return errorResponse(c, err)
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total := len(views)
	if from > total {
		from = total
	}
	end := from + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": views[from:end],
		"meta": echo.Map{
			"page":     page,
			"size":     limit,
			"total":    total,
			"has_prev": page > 1,
			"has_next": end < total,
		},
	})
}

// Create registers a supply record for the calling farmer. The owner email
// always comes from the resolved identity, never the request body.
func (h *ProductHandler) Create(c echo.Context) error {
	var req struct {
		ProductName string  `json:"product_name"`
		Quantity    float64 `json:"quantity"`
		Price       float64 `json:"price"`
		TypeName    string  `json:"type_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorBody{Status: "error", Message: "invalid request body"})
	}

	ident := auth.IdentityFromContext(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}
	ctx := c.Request().Context()

	product := models.Product{
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Email:       ident.Email,
	}

	created, err := h.Catalog.Create(ctx, product, req.TypeName)
	if err != nil {
		return errorResponse(c, err)
	}

	view := models.ProductView{
		ProductName:  created.ProductName,
		Quantity:     created.Quantity,
		Price:        created.Price,
		DateSupplied: created.DateSupplied,
		TypeName:     h.Catalog.TypeNameByID(ctx, created.TypeID),
		Email:        created.Email,
	}
	if err := search.IndexProduct(ctx, h.ES, h.Index, created.ID, view); err != nil {
		logging.FromContext(ctx).Error("search index error", "product_id", created.ID, "error", err)
	}

	return c.JSON(http.StatusCreated, created)
}

// Filter applies the progressive owner/date/type filters. All-sentinel input
// short-circuits to the plain listing path.
func (h *ProductHandler) Filter(c echo.Context) error {
	ident := auth.IdentityFromContext(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}
	ctx := c.Request().Context()

	params := filter.Params{
		Farmer:    c.QueryParam("farmer"),
		StartDate: c.QueryParam("startDate"),
		EndDate:   c.QueryParam("endDate"),
		TypeName:  c.QueryParam("typeName"),
	}
	if params.IsNoOp() {
		return c.Redirect(http.StatusFound, "/api/v1/products")
	}

	seed, err := h.seed(c, ident.Role, ident.Email)
	if err != nil {
		return errorResponse(c, err)
	}

	views, err := h.Catalog.Views(ctx, seed)
	if err != nil {
		return errorResponse(c, err)
	}

	filtered := filter.Apply(ident.Role, views, params)

	return c.JSON(http.StatusOK, echo.Map{"data": filtered, "total": len(filtered)})
}

// Types returns the dropdown values plus, for employees, the farmer emails
// the owner filter offers.
func (h *ProductHandler) Types(c echo.Context) error {
	ident := auth.IdentityFromContext(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}
	ctx := c.Request().Context()

	names, err := h.Catalog.TypeNames(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	resp := echo.Map{"types": names}
	if ident.Role == models.RoleEmployee {
		farmers, err := h.Directory.ListFarmerEmails(ctx)
		if err != nil {
			return errorResponse(c, err)
		}
		resp["farmers"] = farmers
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, ErrorBody{Status: "error", Message: "query is required"})
	}
	if h.ES == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorBody{Status: "error", Message: "search is not available"})
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	ctx := c.Request().Context()
	total, views, err := search.Search(ctx, h.ES, h.Index, q, from, limit)
	if err != nil {
		logging.FromContext(ctx).Error("search error", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorBody{
			Status:  "error",
			Message: "A server error occurred. Please try again later.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": views})
}

func (h *ProductHandler) seed(c echo.Context, role models.Role, email string) ([]models.Product, error) {
	ctx := c.Request().Context()
	if role == models.RoleEmployee {
		return h.Catalog.ListAll(ctx)
	}
	return h.Catalog.ListByOwner(ctx, email)
}
