package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/models"
)

type Repo struct {
	DB *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, apperrors.Upstream("catalog unavailable", err)
	}
	return items, nil
}

func (r *Repo) GetProductsByFarmer(ctx context.Context, email string) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("email = ?", email).
		Order("id ASC").Find(&items).Error; err != nil {
		return nil, apperrors.Upstream("catalog unavailable", err)
	}
	return items, nil
}

func (r *Repo) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Upstream("catalog unavailable", err)
	}
	return &product, nil
}

// MaxProductID returns 0 for an empty catalog. New ids are max+1: append-only
// semantics, an id can be reused after the catalog is emptied.
func (r *Repo) MaxProductID(ctx context.Context) (int, error) {
	var max *int
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Select("MAX(id)").Scan(&max).Error; err != nil {
		return 0, apperrors.Upstream("catalog unavailable", err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *Repo) InsertProduct(ctx context.Context, product *models.Product) error {
	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return apperrors.Upstream("catalog unavailable", err)
	}
	return nil
}

func (r *Repo) GetAllProductTypes(ctx context.Context) ([]models.ProductType, error) {
	var types []models.ProductType
	if err := r.DB.WithContext(ctx).Order("type_id ASC").Find(&types).Error; err != nil {
		return nil, apperrors.Upstream("catalog unavailable", err)
	}
	return types, nil
}

func (r *Repo) InsertProductType(ctx context.Context, pt *models.ProductType) error {
	if err := r.DB.WithContext(ctx).Create(pt).Error; err != nil {
		return apperrors.Upstream("catalog unavailable", err)
	}
	return nil
}
