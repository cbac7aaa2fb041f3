package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/filter"
	"github.com/farmcentral/farm_supply/internal/models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductType{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	svc := &Service{Repo: NewRepo(db)}
	require.NoError(t, svc.EnsureTypes(context.Background()))
	return svc, db
}

func TestEnsureTypesSeedsOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	names, err := svc.TypeNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultProductTypes, names)

	// idempotent on a populated table
	require.NoError(t, svc.EnsureTypes(ctx))
	names, err = svc.TypeNames(ctx)
	require.NoError(t, err)
	assert.Len(t, names, len(DefaultProductTypes))
}

func TestCreateAssignsSequentialIDsAndServerDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, models.Product{
		ProductName: "Carrots",
		Quantity:    10,
		Price:       25.50,
		// client-sent dates are ignored
		DateSupplied: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:        "jan@farmcentral.com",
	}, "Vegetables")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today, first.DateSupplied)

	second, err := svc.Create(ctx, models.Product{
		ProductName: "Apples",
		Quantity:    5,
		Price:       12,
		Email:       "jan@farmcentral.com",
	}, "Fruit")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
}

func TestCreateIsFilterableOnItsSupplyDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Product{
		ProductName: "Maize", Quantity: 10, Price: 25, Email: "jan@farmcentral.com",
	}, "Grain")
	require.NoError(t, err)

	views, err := svc.Views(ctx, []models.Product{*created})
	require.NoError(t, err)

	// a range of exactly the supply day must include the product
	today := time.Now().UTC().Format("2006-01-02")
	got := filter.Apply(models.RoleEmployee, views, filter.Params{
		StartDate: today,
		EndDate:   today,
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Maize", got[0].ProductName)
}

func TestCreateRejectsDuplicateNamePerFarmer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Product{
		ProductName: "Carrots", Quantity: 10, Price: 25, Email: "jan@farmcentral.com",
	}, "Vegetables")
	require.NoError(t, err)

	// same farmer, different case
	_, err = svc.Create(ctx, models.Product{
		ProductName: "CARROTS", Quantity: 3, Price: 9, Email: "jan@farmcentral.com",
	}, "Vegetables")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	// another farmer may use the same name
	_, err = svc.Create(ctx, models.Product{
		ProductName: "Carrots", Quantity: 3, Price: 9, Email: "piet@farmcentral.com",
	}, "Vegetables")
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		product   models.Product
		typeName  string
		wantField string
	}{
		{
			name:      "missing name",
			product:   models.Product{Quantity: 1, Price: 1, Email: "jan@farmcentral.com"},
			typeName:  "Fruit",
			wantField: "ProductName",
		},
		{
			name:      "zero quantity",
			product:   models.Product{ProductName: "Apples", Price: 1, Email: "jan@farmcentral.com"},
			typeName:  "Fruit",
			wantField: "Quantity",
		},
		{
			name:      "negative price",
			product:   models.Product{ProductName: "Apples", Quantity: 1, Price: -2, Email: "jan@farmcentral.com"},
			typeName:  "Fruit",
			wantField: "Price",
		},
		{
			name:      "missing owner",
			product:   models.Product{ProductName: "Apples", Quantity: 1, Price: 1},
			typeName:  "Fruit",
			wantField: "Email",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.product, tt.typeName)
			require.Error(t, err)
			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestCreateUnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), models.Product{
		ProductName: "Apples", Quantity: 1, Price: 1, Email: "jan@farmcentral.com",
	}, "Electronics")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetProductByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Product{
		ProductName: "Carrots", Quantity: 10, Price: 25, Email: "jan@farmcentral.com",
	}, "Vegetables")
	require.NoError(t, err)

	got, err := svc.Repo.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carrots", got.ProductName)

	_, err = svc.Repo.GetProductByID(ctx, 999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListByOwnerScopesToFarmer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Product{
		ProductName: "Carrots", Quantity: 10, Price: 25, Email: "jan@farmcentral.com",
	}, "Vegetables")
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.Product{
		ProductName: "Milk", Quantity: 4, Price: 18, Email: "piet@farmcentral.com",
	}, "Dairy")
	require.NoError(t, err)

	mine, err := svc.ListByOwner(ctx, "jan@farmcentral.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Carrots", mine[0].ProductName)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestViewsResolveTypeNames(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Product{
		ProductName: "Milk", Quantity: 4, Price: 18, Email: "piet@farmcentral.com",
	}, "Dairy")
	require.NoError(t, err)

	// a product whose type row is gone still renders
	orphan := models.Product{
		ID: 99, ProductName: "Mystery", Quantity: 1, Price: 1,
		DateSupplied: created.DateSupplied, TypeID: 77, Email: "piet@farmcentral.com",
	}
	require.NoError(t, db.Create(&orphan).Error)

	products, err := svc.ListAll(ctx)
	require.NoError(t, err)
	views, err := svc.Views(ctx, products)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Dairy", views[0].TypeName)
	assert.Equal(t, "Unknown", views[1].TypeName)
}

func TestTypeNameByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, "Vegetables", svc.TypeNameByID(ctx, 1))
	assert.Equal(t, "Unknown", svc.TypeNameByID(ctx, 42))
}
