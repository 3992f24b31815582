package dto

import (
	"time"

	"github.com/spec-kit/delivery-auth/internal/domain"
)

// CustomerProfileRequest payload for creating or updating a customer profile.
type CustomerProfileRequest struct {
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	DeliveryAddress string `json:"deliveryAddress"`
}

// VendorProfileRequest payload for creating or updating a vendor profile.
type VendorProfileRequest struct {
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

// RiderProfileRequest payload for creating or updating a rider profile.
type RiderProfileRequest struct {
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	VehicleType string `json:"vehicleType"`
}

// CustomerProfileResponse wire shape.
type CustomerProfileResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	FullName        string    `json:"fullName"`
	Phone           string    `json:"phone"`
	DeliveryAddress string    `json:"deliveryAddress"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// VendorProfileResponse wire shape.
type VendorProfileResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"userId"`
	BusinessName string                `json:"businessName"`
	Phone        string                `json:"phone"`
	Address      string                `json:"address"`
	Status       domain.ApprovalStatus `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// RiderProfileResponse wire shape.
type RiderProfileResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"userId"`
	FullName    string                `json:"fullName"`
	Phone       string                `json:"phone"`
	VehicleType string                `json:"vehicleType"`
	Status      domain.ApprovalStatus `json:"status"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// NewCustomerProfileResponse maps a domain profile onto the wire shape.
func NewCustomerProfileResponse(p *domain.CustomerProfile) CustomerProfileResponse {
	return CustomerProfileResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		FullName:        p.FullName,
		Phone:           p.Phone,
		DeliveryAddress: p.DeliveryAddress,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// NewVendorProfileResponse maps a domain profile onto the wire shape.
func NewVendorProfileResponse(p *domain.VendorProfile) VendorProfileResponse {
	return VendorProfileResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		BusinessName: p.BusinessName,
		Phone:        p.Phone,
		Address:      p.Address,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewRiderProfileResponse maps a domain profile onto the wire shape.
func NewRiderProfileResponse(p *domain.RiderProfile) RiderProfileResponse {
	return RiderProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		FullName:    p.FullName,
		Phone:       p.Phone,
		VehicleType: p.VehicleType,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
