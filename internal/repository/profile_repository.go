package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/delivery-auth/internal/domain"
)

// ProfileRepository persists role-specific profiles keyed by owning user.
type ProfileRepository interface {
	CreateCustomer(ctx context.Context, profile *domain.CustomerProfile) error
	GetCustomerByUserID(ctx context.Context, userID string) (*domain.CustomerProfile, error)
	UpdateCustomer(ctx context.Context, profile *domain.CustomerProfile) error

	CreateVendor(ctx context.Context, profile *domain.VendorProfile) error
	GetVendorByUserID(ctx context.Context, userID string) (*domain.VendorProfile, error)
	UpdateVendor(ctx context.Context, profile *domain.VendorProfile) error

	CreateRider(ctx context.Context, profile *domain.RiderProfile) error
	GetRiderByUserID(ctx context.Context, userID string) (*domain.RiderProfile, error)
	UpdateRider(ctx context.Context, profile *domain.RiderProfile) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) CreateCustomer(ctx context.Context, profile *domain.CustomerProfile) error {
	const query = `
        INSERT INTO customer_profiles (user_id, full_name, phone, delivery_address)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.FullName,
		profile.Phone,
		profile.DeliveryAddress,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetCustomerByUserID(ctx context.Context, userID string) (*domain.CustomerProfile, error) {
	const query = `
        SELECT id, user_id, full_name, phone, delivery_address, created_at, updated_at
        FROM customer_profiles WHERE user_id=$1`

	var p domain.CustomerProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Phone,
		&p.DeliveryAddress,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) UpdateCustomer(ctx context.Context, profile *domain.CustomerProfile) error {
	const query = `
        UPDATE customer_profiles SET full_name=$1, phone=$2, delivery_address=$3, updated_at=NOW()
        WHERE user_id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		profile.FullName,
		profile.Phone,
		profile.DeliveryAddress,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) CreateVendor(ctx context.Context, profile *domain.VendorProfile) error {
	const query = `
        INSERT INTO vendor_profiles (user_id, business_name, phone, address, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.BusinessName,
		profile.Phone,
		profile.Address,
		profile.Status,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetVendorByUserID(ctx context.Context, userID string) (*domain.VendorProfile, error) {
	const query = `
        SELECT id, user_id, business_name, phone, address, status, created_at, updated_at
        FROM vendor_profiles WHERE user_id=$1`

	var p domain.VendorProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.BusinessName,
		&p.Phone,
		&p.Address,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) UpdateVendor(ctx context.Context, profile *domain.VendorProfile) error {
	const query = `
        UPDATE vendor_profiles SET business_name=$1, phone=$2, address=$3, status=$4, updated_at=NOW()
        WHERE user_id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		profile.BusinessName,
		profile.Phone,
		profile.Address,
		profile.Status,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) CreateRider(ctx context.Context, profile *domain.RiderProfile) error {
	const query = `
        INSERT INTO rider_profiles (user_id, full_name, phone, vehicle_type, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.FullName,
		profile.Phone,
		profile.VehicleType,
		profile.Status,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetRiderByUserID(ctx context.Context, userID string) (*domain.RiderProfile, error) {
	const query = `
        SELECT id, user_id, full_name, phone, vehicle_type, status, created_at, updated_at
        FROM rider_profiles WHERE user_id=$1`

	var p domain.RiderProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Phone,
		&p.VehicleType,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) UpdateRider(ctx context.Context, profile *domain.RiderProfile) error {
	const query = `
        UPDATE rider_profiles SET full_name=$1, phone=$2, vehicle_type=$3, status=$4, updated_at=NOW()
        WHERE user_id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		profile.FullName,
		profile.Phone,
		profile.VehicleType,
		profile.Status,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
