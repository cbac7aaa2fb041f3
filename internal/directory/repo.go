package directory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/models"
)

// Repo is the employee/farmer directory, keyed by email with the provider id
// as a secondary key.
type Repo struct {
	DB *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("employee not found")
		}
		return nil, apperrors.Upstream("directory unavailable", err)
	}
	return &employee, nil
}

func (r *Repo) FindEmployeeByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("employee not found")
		}
		return nil, apperrors.Upstream("directory unavailable", err)
	}
	return &employee, nil
}

func (r *Repo) FindFarmerByEmail(ctx context.Context, email string) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&farmer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("farmer not found")
		}
		return nil, apperrors.Upstream("directory unavailable", err)
	}
	return &farmer, nil
}

func (r *Repo) FindFarmerByID(ctx context.Context, id string) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&farmer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("farmer not found")
		}
		return nil, apperrors.Upstream("directory unavailable", err)
	}
	return &farmer, nil
}

// EmailTaken reports whether email already belongs to either directory.
// One email may hold at most one of {employee, farmer}.
func (r *Repo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Employee{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, apperrors.Upstream("directory unavailable", err)
	}
	if count > 0 {
		return true, nil
	}
	if err := r.DB.WithContext(ctx).Model(&models.Farmer{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, apperrors.Upstream("directory unavailable", err)
	}
	return count > 0, nil
}

func (r *Repo) InsertEmployee(ctx context.Context, employee *models.Employee) error {
	if err := r.DB.WithContext(ctx).Create(employee).Error; err != nil {
		return apperrors.Upstream("directory unavailable", err)
	}
	return nil
}

func (r *Repo) InsertFarmer(ctx context.Context, farmer *models.Farmer) error {
	if err := r.DB.WithContext(ctx).Create(farmer).Error; err != nil {
		return apperrors.Upstream("directory unavailable", err)
	}
	return nil
}

// ListFarmerEmails feeds the employee filter dropdown.
func (r *Repo) ListFarmerEmails(ctx context.Context) ([]string, error) {
	var emails []string
	if err := r.DB.WithContext(ctx).Model(&models.Farmer{}).
		Order("email ASC").Pluck("email", &emails).Error; err != nil {
		return nil, apperrors.Upstream("directory unavailable", err)
	}
	return emails, nil
}
