package catalog

import (
	"context"
	"time"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/logging"
	"github.com/farmcentral/farm_supply/internal/models"
	"github.com/farmcentral/farm_supply/internal/mykafka"
)

// DefaultProductTypes seed the type table when it is empty.
var DefaultProductTypes = []string{"Vegetables", "Fruit", "Grain", "Dairy", "Meat", "Poultry"}

type Service struct {
	Repo     *Repo
	Producer *mykafka.Producer
}

func (s *Service) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetAllProducts(ctx)
}

func (s *Service) ListByOwner(ctx context.Context, email string) ([]models.Product, error) {
	return s.Repo.GetProductsByFarmer(ctx, email)
}

func (s *Service) ListTypes(ctx context.Context) ([]models.ProductType, error) {
	return s.Repo.GetAllProductTypes(ctx)
}

// TypeNames returns the dropdown values in table order.
func (s *Service) TypeNames(ctx context.Context) ([]string, error) {
	types, err := s.Repo.GetAllProductTypes(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(types))
	for i, pt := range types {
		names[i] = pt.Type
	}
	return names, nil
}

// TypeNameByID resolves a type id for display, "Unknown" when absent.
func (s *Service) TypeNameByID(ctx context.Context, id int) string {
	types, err := s.Repo.GetAllProductTypes(ctx)
	if err != nil {
		return "Unknown"
	}
	for _, pt := range types {
		if pt.TypeID == id {
			return pt.Type
		}
	}
	return "Unknown"
}

// Views joins products with their type names.
func (s *Service) Views(ctx context.Context, products []models.Product) ([]models.ProductView, error) {
	types, err := s.Repo.GetAllProductTypes(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]string, len(types))
	for _, pt := range types {
		byID[pt.TypeID] = pt.Type
	}

	views := make([]models.ProductView, len(products))
	for i, p := range products {
		name, ok := byID[p.TypeID]
		if !ok {
			name = "Unknown"
		}
		views[i] = models.ProductView{
			ProductName:  p.ProductName,
			Quantity:     p.Quantity,
			Price:        p.Price,
			DateSupplied: p.DateSupplied,
			TypeName:     name,
			Email:        p.Email,
		}
	}
	return views, nil
}

// Create validates, resolves the type name, stamps the supply date with the
// server date (client value ignored) and assigns id max+1.
func (s *Service) Create(ctx context.Context, product models.Product, typeName string) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create", "product", product.ProductName, "email", product.Email)

	if err := s.validate(ctx, product); err != nil {
		l.Warn("create_product_failed", "reason", err.Error())
		return nil, err
	}

	types, err := s.Repo.GetAllProductTypes(ctx)
	if err != nil {
		l.Error("create_product_failed", "error", err)
		return nil, err
	}
	typeID := 0
	for _, pt := range types {
		if pt.Type == typeName {
			typeID = pt.TypeID
			break
		}
	}
	if typeID == 0 {
		return nil, apperrors.NotFound("product type '" + typeName + "' not found")
	}

	maxID, err := s.Repo.MaxProductID(ctx)
	if err != nil {
		l.Error("create_product_failed", "error", err)
		return nil, err
	}

	// UTC midnight, the same instant filter date bounds parse to, so a
	// same-day range includes products supplied today.
	now := time.Now().UTC()
	product.ID = maxID + 1
	product.TypeID = typeID
	product.DateSupplied = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := s.Repo.InsertProduct(ctx, &product); err != nil {
		l.Error("create_product_failed", "error", err)
		return nil, err
	}

	if err := s.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, product.Email, map[string]interface{}{
		"type":         "product_created",
		"product_id":   product.ID,
		"product_name": product.ProductName,
		"email":        product.Email,
	}); err != nil {
		l.Error("kafka publish error", "error", err)
	}

	l.Info("product_created", "id", product.ID)
	return &product, nil
}

// validate runs field checks before the per-owner duplicate-name check. When
// the owner listing itself fails the duplicate check is skipped rather than
// failing the create.
func (s *Service) validate(ctx context.Context, product models.Product) error {
	if product.ProductName == "" {
		return apperrors.Validation("ProductName", "Product name is required")
	}
	if product.Quantity <= 0 {
		return apperrors.Validation("Quantity", "Quantity must be greater than 0")
	}
	if product.Price <= 0 {
		return apperrors.Validation("Price", "Price must be greater than 0")
	}
	if product.Email == "" {
		return apperrors.Validation("Email", "Email is required")
	}

	existing, err := s.Repo.GetProductsByFarmer(ctx, product.Email)
	if err != nil {
		logging.FromContext(ctx).Warn("duplicate check skipped", "email", product.Email, "error", err)
		return nil
	}
	for _, p := range existing {
		if models.SameName(p.ProductName, product.ProductName) {
			return apperrors.Validation("ProductName", "Product name already exists for this farmer")
		}
	}
	return nil
}

// EnsureTypes seeds the default product types when the table is empty.
func (s *Service) EnsureTypes(ctx context.Context) error {
	types, err := s.Repo.GetAllProductTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) > 0 {
		return nil
	}
	for i, name := range DefaultProductTypes {
		pt := models.ProductType{TypeID: i + 1, Type: name}
		if err := s.Repo.InsertProductType(ctx, &pt); err != nil {
			return err
		}
	}
	logging.FromContext(ctx).Info("product types seeded", "count", len(DefaultProductTypes))
	return nil
}
