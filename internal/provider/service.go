package provider

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/hash"
	"github.com/farmcentral/farm_supply/internal/logging"
	"github.com/farmcentral/farm_supply/internal/models"
)

const tokenTTL = time.Hour

// Service is the embedded Provider implementation backed by the
// provider_accounts table.
type Service struct {
	DB     *gorm.DB
	Secret []byte
}

func NewService(db *gorm.DB, secret []byte) *Service {
	return &Service{DB: db, Secret: secret}
}

func (s *Service) CreateAccount(ctx context.Context, email, password, displayName string, mustChangePassword bool) (string, error) {
	l := logging.FromContext(ctx).With("svc", "provider.create_account", "email", email)

	var existing models.ProviderAccount
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		l.Warn("create_account_failed", "reason", "email already registered")
		return "", apperrors.Validation("Email", "Email is already taken.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("create_account_failed", "error", err)
		return "", apperrors.Upstream("identity provider unavailable", err)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("create_account_failed", "reason", "cannot hash the password", "error", err)
		return "", apperrors.Upstream("identity provider unavailable", err)
	}

	account := models.ProviderAccount{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       pwHash,
		DisplayName:        displayName,
		MustChangePassword: mustChangePassword,
	}
	if err := s.DB.WithContext(ctx).Create(&account).Error; err != nil {
		l.Error("create_account_failed", "error", err)
		return "", apperrors.Upstream("identity provider unavailable", err)
	}

	l.Info("account_created", "id", account.ID)
	return account.ID, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	l := logging.FromContext(ctx).With("svc", "provider.sign_in", "email", email)

	var account models.ProviderAccount
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("sign_in_failed", "reason", "unknown account")
			return nil, apperrors.Auth("Invalid email or password.")
		}
		l.Error("sign_in_failed", "error", err)
		return nil, apperrors.Upstream("identity provider unavailable", err)
	}

	if !hash.CheckPassword(account.PasswordHash, password) {
		l.Warn("sign_in_failed", "reason", "bad password")
		return nil, apperrors.Auth("Invalid email or password.")
	}

	previousLogin := account.LastLoginAt
	now := time.Now()
	if err := s.DB.WithContext(ctx).Model(&models.ProviderAccount{}).
		Where("id = ?", account.ID).
		Update("last_login_at", now).Error; err != nil {
		l.Error("sign_in_failed", "reason", "cannot stamp last login", "error", err)
		return nil, apperrors.Upstream("identity provider unavailable", err)
	}

	token, err := s.issueToken(account.ID, account.Email)
	if err != nil {
		l.Error("sign_in_failed", "reason", "cannot sign token", "error", err)
		return nil, apperrors.Upstream("identity provider unavailable", err)
	}

	return &SignInResult{
		Account: Account{
			ID:                 account.ID,
			Email:              account.Email,
			DisplayName:        account.DisplayName,
			MustChangePassword: account.MustChangePassword,
			LastLoginAt:        previousLogin,
		},
		Token: token,
	}, nil
}

func (s *Service) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	var account models.ProviderAccount
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("account not found")
		}
		return nil, apperrors.Upstream("identity provider unavailable", err)
	}

	return &Account{
		ID:                 account.ID,
		Email:              account.Email,
		DisplayName:        account.DisplayName,
		MustChangePassword: account.MustChangePassword,
		LastLoginAt:        account.LastLoginAt,
	}, nil
}

func (s *Service) UpdatePassword(ctx context.Context, id, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "provider.update_password", "id", id)

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return apperrors.Upstream("identity provider unavailable", err)
	}

	res := s.DB.WithContext(ctx).Model(&models.ProviderAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":        pwHash,
			"must_change_password": false,
		})
	if res.Error != nil {
		l.Error("update_password_failed", "error", res.Error)
		return apperrors.Upstream("identity provider unavailable", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("account not found")
	}

	l.Info("password_updated")
	return nil
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.ProviderAccount{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Upstream("identity provider unavailable", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("account not found")
	}
	return nil
}

func (s *Service) issueToken(id, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id,
		"email": email,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.Secret)
}
