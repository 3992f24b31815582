package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-auth/internal/auth"
	"github.com/spec-kit/delivery-auth/internal/domain"
	"github.com/spec-kit/delivery-auth/internal/repository"
	apperrors "github.com/spec-kit/delivery-auth/pkg/util"
)

// CustomerProfileInput carries mutable customer profile fields.
type CustomerProfileInput struct {
	FullName        string
	Phone           string
	DeliveryAddress string
}

// VendorProfileInput carries mutable vendor profile fields.
type VendorProfileInput struct {
	BusinessName string
	Phone        string
	Address      string
}

// RiderProfileInput carries mutable rider profile fields.
type RiderProfileInput struct {
	FullName    string
	Phone       string
	VehicleType string
}

// ProfileService manages role-specific profiles. Ownership is already
// enforced by the route guards; this layer enforces role fit only.
type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewProfileService builds the service.
func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, logger: logger}
}

// CreateCustomerProfile creates the profile for a customer account.
func (s *ProfileService) CreateCustomerProfile(ctx context.Context, userID string, input CustomerProfileInput) (*domain.CustomerProfile, error) {
	if err := s.ensureRole(ctx, userID, domain.RoleCustomer); err != nil {
		return nil, err
	}

	profile := &domain.CustomerProfile{
		UserID:          userID,
		FullName:        input.FullName,
		Phone:           input.Phone,
		DeliveryAddress: input.DeliveryAddress,
	}
	if err := s.profiles.CreateCustomer(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("customer profile created", zap.String("user_id", userID))
	return profile, nil
}

// GetCustomerProfile fetches the profile for a customer account.
func (s *ProfileService) GetCustomerProfile(ctx context.Context, userID string) (*domain.CustomerProfile, error) {
	profile, err := s.profiles.GetCustomerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer profile")
		}
		return nil, err
	}
	return profile, nil
}

// UpdateCustomerProfile applies changes to an existing customer profile.
func (s *ProfileService) UpdateCustomerProfile(ctx context.Context, userID string, input CustomerProfileInput) (*domain.CustomerProfile, error) {
	profile, err := s.GetCustomerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.FullName = input.FullName
	profile.Phone = input.Phone
	profile.DeliveryAddress = input.DeliveryAddress
	if err := s.profiles.UpdateCustomer(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("customer profile updated", zap.String("user_id", userID))
	return profile, nil
}

// CreateVendorProfile creates the profile for a vendor account, pending review.
func (s *ProfileService) CreateVendorProfile(ctx context.Context, userID string, input VendorProfileInput) (*domain.VendorProfile, error) {
	if err := s.ensureRole(ctx, userID, domain.RoleVendor); err != nil {
		return nil, err
	}

	profile := &domain.VendorProfile{
		UserID:       userID,
		BusinessName: input.BusinessName,
		Phone:        input.Phone,
		Address:      input.Address,
		Status:       domain.ApprovalPending,
	}
	if err := s.profiles.CreateVendor(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("vendor profile created", zap.String("user_id", userID))
	return profile, nil
}

// GetVendorProfile fetches the profile for a vendor account.
func (s *ProfileService) GetVendorProfile(ctx context.Context, userID string) (*domain.VendorProfile, error) {
	profile, err := s.profiles.GetVendorByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("vendor profile")
		}
		return nil, err
	}
	return profile, nil
}

// UpdateVendorProfile applies changes to an existing vendor profile. Approval
// status is owned by admin review, not by the vendor.
func (s *ProfileService) UpdateVendorProfile(ctx context.Context, userID string, input VendorProfileInput) (*domain.VendorProfile, error) {
	profile, err := s.GetVendorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.BusinessName = input.BusinessName
	profile.Phone = input.Phone
	profile.Address = input.Address
	if err := s.profiles.UpdateVendor(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("vendor profile updated", zap.String("user_id", userID))
	return profile, nil
}

// CreateRiderProfile creates the profile for a rider account, pending review.
func (s *ProfileService) CreateRiderProfile(ctx context.Context, userID string, input RiderProfileInput) (*domain.RiderProfile, error) {
	if err := s.ensureRole(ctx, userID, domain.RoleRider); err != nil {
		return nil, err
	}

	profile := &domain.RiderProfile{
		UserID:      userID,
		FullName:    input.FullName,
		Phone:       input.Phone,
		VehicleType: input.VehicleType,
		Status:      domain.ApprovalPending,
	}
	if err := s.profiles.CreateRider(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("rider profile created", zap.String("user_id", userID))
	return profile, nil
}

// GetRiderProfile fetches the profile for a rider account.
func (s *ProfileService) GetRiderProfile(ctx context.Context, userID string) (*domain.RiderProfile, error) {
	profile, err := s.profiles.GetRiderByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("rider profile")
		}
		return nil, err
	}
	return profile, nil
}

// UpdateRiderProfile applies changes to an existing rider profile.
func (s *ProfileService) UpdateRiderProfile(ctx context.Context, userID string, input RiderProfileInput) (*domain.RiderProfile, error) {
	profile, err := s.GetRiderProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.FullName = input.FullName
	profile.Phone = input.Phone
	profile.VehicleType = input.VehicleType
	if err := s.profiles.UpdateRider(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("rider profile updated", zap.String("user_id", userID))
	return profile, nil
}

func (s *ProfileService) ensureRole(ctx context.Context, userID string, role domain.Role) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return err
	}
	if !auth.HasRole(user.Role, role) {
		return apperrors.NewValidationError("user must have " + string(role) + " role")
	}
	return nil
}
