package provider

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/models"
)

func newTestService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.ProviderAccount{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return NewService(db, []byte("test-provider-secret"))
}

func TestCreateAccountAndSignIn(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateAccount(ctx, "a@farmcentral.com", "Password1*", "Jan Smit", true)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	account, err := svc.GetAccountByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@farmcentral.com", account.Email)
	assert.True(t, account.MustChangePassword)
	assert.Nil(t, account.LastLoginAt, "no login yet")

	res, err := svc.SignIn(ctx, "a@farmcentral.com", "Password1*")
	require.NoError(t, err)
	assert.Equal(t, id, res.Account.ID)
	assert.Nil(t, res.Account.LastLoginAt, "first sign-in reports no previous login")
	require.NotEmpty(t, res.Token)

	token, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-provider-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, id, claims["sub"])

	account, err = svc.GetAccountByID(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, account.LastLoginAt, "sign-in stamps last login")

	res, err = svc.SignIn(ctx, "a@farmcentral.com", "Password1*")
	require.NoError(t, err)
	assert.NotNil(t, res.Account.LastLoginAt, "second sign-in sees the first stamp")
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "a@farmcentral.com", "Password1*", "Jan", false)
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "a@farmcentral.com", "wrong-password")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err))

	_, err = svc.SignIn(ctx, "nobody@farmcentral.com", "Password1*")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err))
}

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "a@farmcentral.com", "Password1*", "Jan", false)
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "a@farmcentral.com", "Other1*pw", "Piet", false)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdatePasswordClearsRotationFlag(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateAccount(ctx, "a@farmcentral.com", "Password1*", "Jan", true)
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, id, "NewSecret9!"))

	account, err := svc.GetAccountByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, account.MustChangePassword)

	_, err = svc.SignIn(ctx, "a@farmcentral.com", "Password1*")
	assert.True(t, apperrors.IsAuth(err), "old password no longer works")

	_, err = svc.SignIn(ctx, "a@farmcentral.com", "NewSecret9!")
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateAccount(ctx, "a@farmcentral.com", "Password1*", "Jan", false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, id))

	_, err = svc.GetAccountByID(ctx, id)
	assert.True(t, apperrors.IsNotFound(err))

	err = svc.DeleteAccount(ctx, id)
	assert.True(t, apperrors.IsNotFound(err))
}
