package directory

import (
	"context"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/logging"
	"github.com/farmcentral/farm_supply/internal/models"
	"github.com/farmcentral/farm_supply/internal/mykafka"
	"github.com/farmcentral/farm_supply/internal/provider"
	"github.com/farmcentral/farm_supply/internal/validation"
)

// TemporaryFarmerPassword is set on every provisioned farmer account and is
// valid until the farmer's first login forces a rotation. Anyone who knows a
// farmer's email can use the account inside that window.
const TemporaryFarmerPassword = "Password1*"

type Service struct {
	Repo      *Repo
	Provider  provider.Provider
	Producer  *mykafka.Producer
	OrgDomain string
}

// LoginResult carries everything the handler needs to establish a session.
type LoginResult struct {
	ProviderID         string
	Role               models.Role
	Email              string
	AuthToken          string
	MustChangePassword bool
}

func (s *Service) domain() string {
	if s.OrgDomain != "" {
		return s.OrgDomain
	}
	return validation.OrganizationDomain
}

// RegisterEmployee self-registers an employee with the password they chose.
// Check order: taken email first so duplicates get their own message, then
// password strength, email format, name charset, organization domain.
func (s *Service) RegisterEmployee(ctx context.Context, name, email, password string) (*models.Employee, error) {
	l := logging.FromContext(ctx).With("svc", "directory.register_employee", "email", email)

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		l.Error("register_employee_failed", "error", err)
		return nil, err
	}
	if taken {
		return nil, apperrors.Validation("Email", "User with this email already exists.")
	}
	if !validation.MeetsPasswordRequirements(password) {
		return nil, apperrors.Validation("Password", "Password must contain at least 8 characters, 1 uppercase, 1 lowercase, 1 number and 1 special character.")
	}
	if !validation.IsEmailValid(email) {
		return nil, apperrors.Validation("Email", "Email must be valid.")
	}
	if !validation.OnlyLetters(name) {
		return nil, apperrors.Validation("Name", "Name must only contain letters.")
	}
	if !validation.IsEmailInDomain(email, s.domain()) {
		return nil, apperrors.Validation("Email", "Email must be in the organization.")
	}

	id, err := s.Provider.CreateAccount(ctx, email, password, name, false)
	if err != nil {
		l.Error("register_employee_failed", "reason", "provider account creation failed", "error", err)
		return nil, err
	}

	employee := &models.Employee{
		ID:     id,
		Name:   name,
		Email:  email,
		RoleID: int(models.RoleEmployee),
	}
	if err := s.Repo.InsertEmployee(ctx, employee); err != nil {
		s.compensate(ctx, id, err)
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUserEvents, email, map[string]interface{}{
		"type":  "employee_registered",
		"id":    id,
		"email": email,
	})

	l.Info("employee_registered", "id", id)
	return employee, nil
}

// CreateFarmer provisions a farmer on behalf of an employee. The provider
// account gets the fixed temporary password and a forced first-login
// rotation.
func (s *Service) CreateFarmer(ctx context.Context, callerRole models.Role, name, address, phone, email string) (*models.Farmer, error) {
	l := logging.FromContext(ctx).With("svc", "directory.create_farmer", "email", email)

	if callerRole != models.RoleEmployee {
		l.Warn("create_farmer_denied", "caller_role", callerRole.String())
		return nil, apperrors.Auth("only employees can create farmers")
	}

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		l.Error("create_farmer_failed", "error", err)
		return nil, err
	}
	if taken {
		return nil, apperrors.Validation("Email", "Email is already taken.")
	}
	if !validation.IsEmailValid(email) {
		return nil, apperrors.Validation("Email", "Email must be valid.")
	}
	if !validation.IsPhoneValid(phone) {
		return nil, apperrors.Validation("Phone", "Phone number must be 10 digits long.")
	}
	if !validation.OnlyLetters(name) {
		return nil, apperrors.Validation("Name", "Name must only contain letters.")
	}
	if !validation.IsEmailInDomain(email, s.domain()) {
		return nil, apperrors.Validation("Email", "Email must be in the organization.")
	}

	id, err := s.Provider.CreateAccount(ctx, email, TemporaryFarmerPassword, name, true)
	if err != nil {
		l.Error("create_farmer_failed", "reason", "provider account creation failed", "error", err)
		return nil, err
	}

	farmer := &models.Farmer{
		ID:      id,
		Name:    name,
		Address: address,
		Phone:   phone,
		Email:   email,
		RoleID:  int(models.RoleFarmer),
	}
	if err := s.Repo.InsertFarmer(ctx, farmer); err != nil {
		s.compensate(ctx, id, err)
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUserEvents, email, map[string]interface{}{
		"type":  "farmer_registered",
		"id":    id,
		"email": email,
	})

	l.Info("farmer_registered", "id", id)
	return farmer, nil
}

// Login probes the employee directory first, then the farmer directory. An
// email known to neither yields a single validation error and no session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "directory.login", "email", email)

	employee, err := s.Repo.FindEmployeeByEmail(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		l.Error("login_failed", "error", err)
		return nil, err
	}
	if employee != nil {
		res, err := s.Provider.SignIn(ctx, email, password)
		if err != nil {
			l.Warn("login_failed", "role", "employee", "error", err)
			return nil, err
		}
		s.publish(ctx, mykafka.TopicUserEvents, email, map[string]interface{}{
			"type": "user_logged_in", "role": "employee", "email": email,
		})
		return &LoginResult{
			ProviderID: res.Account.ID,
			Role:       models.RoleEmployee,
			Email:      email,
			AuthToken:  res.Token,
		}, nil
	}

	farmer, err := s.Repo.FindFarmerByEmail(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		l.Error("login_failed", "error", err)
		return nil, err
	}
	if farmer != nil {
		res, err := s.Provider.SignIn(ctx, email, password)
		if err != nil {
			l.Warn("login_failed", "role", "farmer", "error", err)
			return nil, err
		}
		// A farmer who has never signed in before is still on the
		// temporary password and must rotate it now.
		firstLogin := res.Account.LastLoginAt == nil
		s.publish(ctx, mykafka.TopicUserEvents, email, map[string]interface{}{
			"type": "user_logged_in", "role": "farmer", "email": email,
		})
		return &LoginResult{
			ProviderID:         res.Account.ID,
			Role:               models.RoleFarmer,
			Email:              email,
			AuthToken:          res.Token,
			MustChangePassword: firstLogin,
		}, nil
	}

	l.Warn("login_failed", "reason", "unknown email")
	return nil, apperrors.Validation("Email", "User with this email does not exist.")
}

// ChangeFarmerPassword rotates a farmer's provider password after checking
// strength. Only the farmer themself may rotate it.
func (s *Service) ChangeFarmerPassword(ctx context.Context, callerRole models.Role, providerID, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "directory.change_farmer_password", "id", providerID)

	if callerRole != models.RoleFarmer {
		l.Warn("change_password_denied", "caller_role", callerRole.String())
		return apperrors.Auth("only farmers can change their password here")
	}
	if !validation.MeetsPasswordRequirements(newPassword) {
		return apperrors.Validation("Password", "Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number and one special character.")
	}

	if err := s.Provider.UpdatePassword(ctx, providerID, newPassword); err != nil {
		l.Error("change_password_failed", "error", err)
		return err
	}

	s.publish(ctx, mykafka.TopicUserEvents, providerID, map[string]interface{}{
		"type": "password_changed", "id": providerID,
	})

	l.Info("password_changed")
	return nil
}

// compensate removes the provider account created just before a directory
// insert that then failed, so no orphaned account lingers. A failed rollback
// is logged for manual reconciliation.
func (s *Service) compensate(ctx context.Context, providerID string, cause error) {
	l := logging.FromContext(ctx).With("svc", "directory.compensate", "id", providerID)
	l.Error("directory_insert_failed", "error", cause)
	if err := s.Provider.DeleteAccount(ctx, providerID); err != nil {
		l.Error("provider_rollback_failed", "error", err, "action", "manual reconciliation required")
	}
}

func (s *Service) publish(ctx context.Context, topic, key string, event map[string]interface{}) {
	if err := s.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "error", err)
	}
}
