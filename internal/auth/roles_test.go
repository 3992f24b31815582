package auth_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-auth/internal/auth"
	"github.com/spec-kit/delivery-auth/internal/domain"
	"github.com/spec-kit/delivery-auth/pkg/util"
)

// guardApp wires a guard chain behind a status-only error handler so guard
// outcomes can be asserted without the full HTTP pipeline.
func guardApp(principal *auth.Principal, method, path string, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(util.ToDomainError(err).HTTPStatus)
		},
	})
	withPrincipal := func(c *fiber.Ctx) error {
		if principal != nil {
			auth.SetPrincipal(c, principal)
		}
		return c.Next()
	}
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Add(method, path, withPrincipal, guard, ok)
	return app
}

func TestRequireRolesAcceptsMember(t *testing.T) {
	principal := &auth.Principal{ID: "u1", Role: domain.RoleVendor}
	app := guardApp(principal, fiber.MethodGet, "/r", auth.RequireRoles(zap.NewNop(), domain.RoleVendor, domain.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/r", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRolesRejectsNonMember(t *testing.T) {
	principal := &auth.Principal{ID: "u1", Role: domain.RoleCustomer}
	app := guardApp(principal, fiber.MethodGet, "/r", auth.RequireRoles(zap.NewNop(), domain.RoleVendor, domain.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/r", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRolesWithoutPrincipalIsInternalError(t *testing.T) {
	app := guardApp(nil, fiber.MethodGet, "/r", auth.RequireRoles(zap.NewNop(), domain.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/r", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRequireResourceOwnerMatrix(t *testing.T) {
	tests := []struct {
		name      string
		principal *auth.Principal
		ownerID   string
		want      int
	}{
		{"owner accepted", &auth.Principal{ID: "u1", Role: domain.RoleCustomer}, "u1", http.StatusOK},
		{"non-owner rejected", &auth.Principal{ID: "u1", Role: domain.RoleCustomer}, "u2", http.StatusForbidden},
		{"admin bypasses", &auth.Principal{ID: "u1", Role: domain.RoleAdmin}, "anything", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := guardApp(tt.principal, fiber.MethodGet, "/r/:userId", auth.RequireResourceOwner())

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/r/"+tt.ownerID, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireResourceOwnerFallsBackToBody(t *testing.T) {
	principal := &auth.Principal{ID: "u1", Role: domain.RoleCustomer}
	app := guardApp(principal, fiber.MethodPost, "/r", auth.RequireResourceOwner())

	req := httptest.NewRequest(fiber.MethodPost, "/r", bytes.NewReader([]byte(`{"userId":"u1"}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/r", bytes.NewReader([]byte(`{"userId":"u2"}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireResourceOwnerWithoutPrincipalIsInternalError(t *testing.T) {
	app := guardApp(nil, fiber.MethodGet, "/r/:userId", auth.RequireResourceOwner())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/r/u1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
