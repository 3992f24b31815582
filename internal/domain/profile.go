package domain

import "time"

// ApprovalStatus tracks vendor/rider onboarding review.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// CustomerProfile holds delivery details for customer accounts.
type CustomerProfile struct {
	ID              string
	UserID          string
	FullName        string
	Phone           string
	DeliveryAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VendorProfile holds storefront details for vendor accounts.
type VendorProfile struct {
	ID           string
	UserID       string
	BusinessName string
	Phone        string
	Address      string
	Status       ApprovalStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RiderProfile holds courier details for rider accounts.
type RiderProfile struct {
	ID          string
	UserID      string
	FullName    string
	Phone       string
	VehicleType string
	Status      ApprovalStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
