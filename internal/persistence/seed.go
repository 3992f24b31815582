package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-auth/internal/auth"
	"github.com/spec-kit/delivery-auth/internal/domain"
)

type seedAccount struct {
	email    string
	password string
	role     domain.Role
}

var seedAccounts = []seedAccount{
	{email: "admin@fooddelivery.com", password: "Admin123!", role: domain.RoleAdmin},
	{email: "vendor@fooddelivery.com", password: "Vendor123!", role: domain.RoleVendor},
	{email: "customer@fooddelivery.com", password: "Customer123!", role: domain.RoleCustomer},
	{email: "rider@fooddelivery.com", password: "Rider123!", role: domain.RoleRider},
}

// SeedUsers inserts one account per role when the users table is empty.
// Intended for development and demo environments only.
func SeedUsers(ctx context.Context, pool *pgxpool.Pool, bcryptCost int, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping user seeding")
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logger.Info("users already seeded, skipping")
		return nil
	}

	for _, account := range seedAccounts {
		hash, err := auth.HashPassword(account.password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3)`,
			account.email, hash, account.role,
		); err != nil {
			return fmt.Errorf("seed user %s: %w", account.email, err)
		}
	}

	logger.Info("seeded users", zap.Int("count", len(seedAccounts)))
	return nil
}
