package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/delivery-auth/internal/api/dto"
	"github.com/spec-kit/delivery-auth/internal/service"
	apperrors "github.com/spec-kit/delivery-auth/pkg/util"
)

// ProfilesHandler exposes role-specific profile endpoints. Routes carry the
// ownership guard, so :userId is always the caller or an admin target.
type ProfilesHandler struct {
	profiles *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profileService *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profileService}
}

// CreateCustomer handles POST /profiles/customer/:userId.
func (h *ProfilesHandler) CreateCustomer(c *fiber.Ctx) error {
	var req dto.CustomerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateCustomer(req); err != nil {
		return err
	}

	profile, err := h.profiles.CreateCustomerProfile(c.UserContext(), c.Params("userId"), service.CustomerProfileInput{
		FullName:        req.FullName,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCustomerProfileResponse(profile))
}

// GetCustomer handles GET /profiles/customer/:userId.
func (h *ProfilesHandler) GetCustomer(c *fiber.Ctx) error {
	profile, err := h.profiles.GetCustomerProfile(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCustomerProfileResponse(profile))
}

// UpdateCustomer handles PATCH /profiles/customer/:userId.
func (h *ProfilesHandler) UpdateCustomer(c *fiber.Ctx) error {
	var req dto.CustomerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateCustomer(req); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateCustomerProfile(c.UserContext(), c.Params("userId"), service.CustomerProfileInput{
		FullName:        req.FullName,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCustomerProfileResponse(profile))
}

// CreateVendor handles POST /profiles/vendor/:userId.
func (h *ProfilesHandler) CreateVendor(c *fiber.Ctx) error {
	var req dto.VendorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateVendor(req); err != nil {
		return err
	}

	profile, err := h.profiles.CreateVendorProfile(c.UserContext(), c.Params("userId"), service.VendorProfileInput{
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
		Address:      req.Address,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewVendorProfileResponse(profile))
}

// GetVendor handles GET /profiles/vendor/:userId.
func (h *ProfilesHandler) GetVendor(c *fiber.Ctx) error {
	profile, err := h.profiles.GetVendorProfile(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVendorProfileResponse(profile))
}

// UpdateVendor handles PATCH /profiles/vendor/:userId.
func (h *ProfilesHandler) UpdateVendor(c *fiber.Ctx) error {
	var req dto.VendorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateVendor(req); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateVendorProfile(c.UserContext(), c.Params("userId"), service.VendorProfileInput{
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
		Address:      req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVendorProfileResponse(profile))
}

// CreateRider handles POST /profiles/rider/:userId.
func (h *ProfilesHandler) CreateRider(c *fiber.Ctx) error {
	var req dto.RiderProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateRider(req); err != nil {
		return err
	}

	profile, err := h.profiles.CreateRiderProfile(c.UserContext(), c.Params("userId"), service.RiderProfileInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRiderProfileResponse(profile))
}

// GetRider handles GET /profiles/rider/:userId.
func (h *ProfilesHandler) GetRider(c *fiber.Ctx) error {
	profile, err := h.profiles.GetRiderProfile(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRiderProfileResponse(profile))
}

// UpdateRider handles PATCH /profiles/rider/:userId.
func (h *ProfilesHandler) UpdateRider(c *fiber.Ctx) error {
	var req dto.RiderProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateRider(req); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateRiderProfile(c.UserContext(), c.Params("userId"), service.RiderProfileInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRiderProfileResponse(profile))
}

func validateCustomer(req dto.CustomerProfileRequest) error {
	var problems []string
	if req.FullName == "" {
		problems = append(problems, "fullName is required")
	}
	if req.Phone == "" {
		problems = append(problems, "phone is required")
	}
	if req.DeliveryAddress == "" {
		problems = append(problems, "deliveryAddress is required")
	}
	if len(problems) > 0 {
		return apperrors.NewValidationError(problems...)
	}
	return nil
}

func validateVendor(req dto.VendorProfileRequest) error {
	var problems []string
	if req.BusinessName == "" {
		problems = append(problems, "businessName is required")
	}
	if req.Phone == "" {
		problems = append(problems, "phone is required")
	}
	if req.Address == "" {
		problems = append(problems, "address is required")
	}
	if len(problems) > 0 {
		return apperrors.NewValidationError(problems...)
	}
	return nil
}

func validateRider(req dto.RiderProfileRequest) error {
	var problems []string
	if req.FullName == "" {
		problems = append(problems, "fullName is required")
	}
	if req.Phone == "" {
		problems = append(problems, "phone is required")
	}
	if req.VehicleType == "" {
		problems = append(problems, "vehicleType is required")
	}
	if len(problems) > 0 {
		return apperrors.NewValidationError(problems...)
	}
	return nil
}
