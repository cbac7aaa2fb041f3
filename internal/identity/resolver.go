package identity

import (
	"context"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/directory"
	"github.com/farmcentral/farm_supply/internal/logging"
	"github.com/farmcentral/farm_supply/internal/models"
	"github.com/farmcentral/farm_supply/internal/provider"
)

// Identity is a resolved, directory-backed identity. A provider token whose
// email matches no directory record resolves to nothing.
type Identity struct {
	ProviderID string
	Role       models.Role
	Email      string
	Name       string
}

type Resolver struct {
	Provider  provider.Provider
	Directory *directory.Repo
}

// Resolve maps an opaque provider account id to a role and profile: the
// provider gives the canonical email, then the employee directory is probed
// before the farmer directory. Read-only; failures are "unknown", never
// fatal.
func (r *Resolver) Resolve(ctx context.Context, providerID string) (*Identity, error) {
	l := logging.FromContext(ctx).With("svc", "identity.resolve", "id", providerID)

	account, err := r.Provider.GetAccountByID(ctx, providerID)
	if err != nil {
		l.Warn("resolve_failed", "reason", "provider lookup failed", "error", err)
		return nil, apperrors.Auth("unknown identity")
	}

	employee, err := r.Directory.FindEmployeeByEmail(ctx, account.Email)
	if err == nil {
		return &Identity{
			ProviderID: providerID,
			Role:       models.RoleEmployee,
			Email:      employee.Email,
			Name:       employee.Name,
		}, nil
	}
	if !apperrors.IsNotFound(err) {
		l.Warn("resolve_failed", "reason", "employee probe failed", "error", err)
		return nil, apperrors.Auth("unknown identity")
	}

	farmer, err := r.Directory.FindFarmerByEmail(ctx, account.Email)
	if err == nil {
		return &Identity{
			ProviderID: providerID,
			Role:       models.RoleFarmer,
			Email:      farmer.Email,
			Name:       farmer.Name,
		}, nil
	}
	if !apperrors.IsNotFound(err) {
		l.Warn("resolve_failed", "reason", "farmer probe failed", "error", err)
	} else {
		l.Warn("resolve_failed", "reason", "email in neither directory", "email", account.Email)
	}
	return nil, apperrors.Auth("unknown identity")
}
