package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/gofiber/fiber/v2"

	httptransport "github.com/spec-kit/delivery-auth/internal/api/http"
	"github.com/spec-kit/delivery-auth/internal/api/http/handlers"
	"github.com/spec-kit/delivery-auth/internal/auth"
	"github.com/spec-kit/delivery-auth/internal/config"
	"github.com/spec-kit/delivery-auth/internal/domain"
	"github.com/spec-kit/delivery-auth/internal/events"
	"github.com/spec-kit/delivery-auth/internal/observability"
	"github.com/spec-kit/delivery-auth/internal/persistence"
	"github.com/spec-kit/delivery-auth/internal/service"
	apperrors "github.com/spec-kit/delivery-auth/pkg/util"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return &pgconn.PgError{
			Code:   "23505",
			Detail: "Key (email)=(" + user.Email + ") already exists.",
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.Email] = &clone
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; !exists {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.Email] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, exists := r.users[email]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		out = append(out, &clone)
	}
	return out, nil
}

type memProfileRepo struct {
	mu        sync.Mutex
	customers map[string]*domain.CustomerProfile
	vendors   map[string]*domain.VendorProfile
	riders    map[string]*domain.RiderProfile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{
		customers: make(map[string]*domain.CustomerProfile),
		vendors:   make(map[string]*domain.VendorProfile),
		riders:    make(map[string]*domain.RiderProfile),
	}
}

func (r *memProfileRepo) CreateCustomer(_ context.Context, p *domain.CustomerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.customers[p.UserID]; exists {
		return &pgconn.PgError{Code: "23505", Detail: "Key (user_id)=(" + p.UserID + ") already exists."}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	r.customers[p.UserID] = &clone
	return nil
}

func (r *memProfileRepo) GetCustomerByUserID(_ context.Context, userID string) (*domain.CustomerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.customers[userID]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (r *memProfileRepo) UpdateCustomer(_ context.Context, p *domain.CustomerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.customers[p.UserID]; !exists {
		return pgx.ErrNoRows
	}
	clone := *p
	r.customers[p.UserID] = &clone
	return nil
}

func (r *memProfileRepo) CreateVendor(_ context.Context, p *domain.VendorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.vendors[p.UserID]; exists {
		return &pgconn.PgError{Code: "23505", Detail: "Key (user_id)=(" + p.UserID + ") already exists."}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	r.vendors[p.UserID] = &clone
	return nil
}

func (r *memProfileRepo) GetVendorByUserID(_ context.Context, userID string) (*domain.VendorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.vendors[userID]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (r *memProfileRepo) UpdateVendor(_ context.Context, p *domain.VendorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.vendors[p.UserID]; !exists {
		return pgx.ErrNoRows
	}
	clone := *p
	r.vendors[p.UserID] = &clone
	return nil
}

func (r *memProfileRepo) CreateRider(_ context.Context, p *domain.RiderProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.riders[p.UserID]; exists {
		return &pgconn.PgError{Code: "23505", Detail: "Key (user_id)=(" + p.UserID + ") already exists."}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	r.riders[p.UserID] = &clone
	return nil
}

func (r *memProfileRepo) GetRiderByUserID(_ context.Context, userID string) (*domain.RiderProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.riders[userID]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (r *memProfileRepo) UpdateRider(_ context.Context, p *domain.RiderProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.riders[p.UserID]; !exists {
		return pgx.ErrNoRows
	}
	clone := *p
	r.riders[p.UserID] = &clone
	return nil
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemDenylist() *memDenylist {
	return &memDenylist{revoked: make(map[string]bool)}
}

func (d *memDenylist) Revoke(_ context.Context, token string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[token] = true
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revoked[token], nil
}

type errorEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Timestamp  string          `json:"timestamp"`
	Path       string          `json:"path"`
	Method     string          `json:"method"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
	RequestID  string          `json:"requestId"`
}

type testApp struct {
	app    *fiber.App
	svc    *service.AuthService
	tokens *auth.TokenManager
	cfg    config.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Config{
		App: config.AppConfig{Name: "delivery-auth-test", Version: "test"},
		Auth: config.AuthConfig{
			AccessTokenSecret:   "access-secret-for-tests",
			AccessTokenTTL:      15 * time.Minute,
			RefreshTokenSecret:  "refresh-secret-for-tests",
			RefreshTokenTTL:     7 * 24 * time.Hour,
			BcryptCost:          bcrypt.MinCost,
			DirectoryTimeoutSec: 5,
		},
	}

	logger := zap.NewNop()
	userRepo := newMemUserRepo()
	profileRepo := newMemProfileRepo()
	denylist := newMemDenylist()
	tokens := auth.NewTokenManager(cfg.Auth)
	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Denylist:   denylist,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(userRepo)
	profileService := service.NewProfileService(profileRepo, userRepo, logger)
	authMiddleware := auth.NewMiddleware(tokens, userRepo, logger, cfg.Auth.DirectoryTimeout())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Profiles:       handlers.NewProfilesHandler(profileService),
		AuthMiddleware: authMiddleware,
		Logger:         logger,
	})

	return &testApp{app: app, svc: authService, tokens: tokens, cfg: cfg}
}

func (ta *testApp) register(t *testing.T, email, password string, role domain.Role) *domain.User {
	t.Helper()
	user, err := ta.svc.Register(context.Background(), email, password, role)
	require.NoError(t, err)
	return user
}

func (ta *testApp) login(t *testing.T, email, password string) *service.AuthResult {
	t.Helper()
	result, err := ta.svc.Login(context.Background(), email, password)
	require.NoError(t, err)
	return result
}

func (ta *testApp) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := ta.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestMissingAuthorizationHeaderProducesEnvelope(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, fiber.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusUnauthorized, envelope.StatusCode)
	assert.Equal(t, "/auth/me", envelope.Path)
	assert.Equal(t, fiber.MethodGet, envelope.Method)
	assert.NotEmpty(t, envelope.RequestID)
	assert.Equal(t, resp.Header.Get(observability.HeaderRequestID), envelope.RequestID)
	assert.JSONEq(t, `"Authentication required"`, string(envelope.Message))
}

func TestInboundRequestIDIsReused(t *testing.T) {
	ta := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/auth/me", nil)
	req.Header.Set(observability.HeaderRequestID, "corr-123")
	resp, err := ta.app.Test(req, 5000)
	require.NoError(t, err)

	assert.Equal(t, "corr-123", resp.Header.Get(observability.HeaderRequestID))
	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "corr-123", envelope.RequestID)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	ta := newTestApp(t)
	user := ta.register(t, "expired@example.com", "Sup3rSecret!", domain.RoleCustomer)

	expiredCfg := ta.cfg.Auth
	expiredCfg.AccessTokenTTL = -time.Minute
	expiredTokens := auth.NewTokenManager(expiredCfg)
	token, _, err := expiredTokens.Issue(user, auth.FlavorAccess)
	require.NoError(t, err)

	resp := ta.do(t, fiber.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshTokenRejectedOnAccessRoute(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "flavor@example.com", "Sup3rSecret!", domain.RoleCustomer)
	result := ta.login(t, "flavor@example.com", "Sup3rSecret!")

	resp := ta.do(t, fiber.MethodGet, "/auth/me", result.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGuard(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "admin@example.com", "Sup3rSecret!", domain.RoleAdmin)
	ta.register(t, "customer@example.com", "Sup3rSecret!", domain.RoleCustomer)
	admin := ta.login(t, "admin@example.com", "Sup3rSecret!")
	customer := ta.login(t, "customer@example.com", "Sup3rSecret!")

	resp := ta.do(t, fiber.MethodGet, "/users", admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.do(t, fiber.MethodGet, "/users", customer.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)
	assert.JSONEq(t, `"Access denied"`, string(envelope.Message))
}

func TestOwnershipGuard(t *testing.T) {
	ta := newTestApp(t)
	owner := ta.register(t, "owner@example.com", "Sup3rSecret!", domain.RoleCustomer)
	other := ta.register(t, "other@example.com", "Sup3rSecret!", domain.RoleCustomer)
	ta.register(t, "admin@example.com", "Sup3rSecret!", domain.RoleAdmin)

	ownerLogin := ta.login(t, "owner@example.com", "Sup3rSecret!")
	adminLogin := ta.login(t, "admin@example.com", "Sup3rSecret!")

	resp := ta.do(t, fiber.MethodGet, "/users/profile/"+owner.ID, ownerLogin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.do(t, fiber.MethodGet, "/users/profile/"+other.ID, ownerLogin.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)
	assert.JSONEq(t, `"You can only access your own resources"`, string(envelope.Message))

	resp = ta.do(t, fiber.MethodGet, "/users/profile/"+other.ID, adminLogin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterValidationEnvelope(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, fiber.MethodPost, "/users/register", "", map[string]string{"email": "", "password": "short"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	var messages []string
	require.NoError(t, json.Unmarshal(envelope.Message, &messages))
	assert.Len(t, messages, 2)
}

func TestDuplicateRegistrationConflict(t *testing.T) {
	ta := newTestApp(t)

	body := map[string]string{"email": "dup@example.com", "password": "Sup3rSecret!"}
	resp := ta.do(t, fiber.MethodPost, "/users/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ta.do(t, fiber.MethodPost, "/users/register", "", body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.JSONEq(t, `"email already exists"`, string(envelope.Message))
	assert.NotEmpty(t, envelope.RequestID)
}

func TestLoginRefreshLogoutFlow(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "flow@example.com", "Sup3rSecret!", domain.RoleRider)

	resp := ta.do(t, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "Sup3rSecret!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginBody struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		User         struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	assert.Equal(t, "flow@example.com", loginBody.User.Email)
	assert.Equal(t, "RIDER", loginBody.User.Role)

	resp = ta.do(t, fiber.MethodGet, "/auth/me", loginBody.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.do(t, fiber.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": loginBody.RefreshToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.do(t, fiber.MethodPost, "/auth/logout", "", map[string]string{"refreshToken": loginBody.RefreshToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.do(t, fiber.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": loginBody.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileLifecycleWithOwnership(t *testing.T) {
	ta := newTestApp(t)
	vendor := ta.register(t, "vendor@example.com", "Sup3rSecret!", domain.RoleVendor)
	vendorLogin := ta.login(t, "vendor@example.com", "Sup3rSecret!")

	body := map[string]string{"businessName": "Pasta Hut", "phone": "555-0101", "address": "1 Main St"}
	resp := ta.do(t, fiber.MethodPost, "/profiles/vendor/"+vendor.ID, vendorLogin.AccessToken, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "PENDING", created.Status)

	resp = ta.do(t, fiber.MethodGet, "/profiles/vendor/"+vendor.ID, vendorLogin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a customer cannot create a vendor profile for themselves
	customer := ta.register(t, "cust@example.com", "Sup3rSecret!", domain.RoleCustomer)
	customerLogin := ta.login(t, "cust@example.com", "Sup3rSecret!")
	resp = ta.do(t, fiber.MethodPost, "/profiles/vendor/"+customer.ID, customerLogin.AccessToken, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConstraintViolationLogsAtErrorLevel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	app.Post("/insert", func(c *fiber.Ctx) error {
		return &pgconn.PgError{
			Code:           "23505",
			ConstraintName: "users_email_key",
			Detail:         "Key (email)=(dup@example.com) already exists.",
		}
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/insert", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Empty(t, logs.FilterMessage("request rejected").All())
}

func TestClientRejectionStillLogsAtWarnLevel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	app.Get("/reject", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("email is required")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/reject", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	entries := logs.FilterMessage("request rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}

func TestUnknownRouteEnvelope(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, fiber.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusNotFound, envelope.StatusCode)
	assert.NotEmpty(t, envelope.RequestID)
}
