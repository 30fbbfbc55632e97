package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaidashi/backoffice-api/internal/auth"
	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/repository"
	"github.com/vaidashi/backoffice-api/internal/seed"
	"github.com/vaidashi/backoffice-api/internal/service"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
	"github.com/vaidashi/backoffice-api/pkg/logger"
)

var now = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

const today = "2025-06-15"

var (
	superAdmin = service.Actor{ID: "0", Name: "admin", Email: "admin@sparta.com", Role: models.RoleSuperAdmin}
	csAdmin    = service.Actor{ID: "2", Name: "이고객", Email: "cs@sparta.com", Role: models.RoleCSAdmin}
)

type fixture struct {
	store     *store.Store
	outbox    *repository.MemoryOutboxRepository
	auth      *service.AuthService
	users     *service.UserService
	customers *service.CustomerService
	products  *service.ProductService
	orders    *service.OrderService
	reviews   *service.ReviewService
	dashboard *service.DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	data, err := seed.Generate(seed.Options{Seed: 42, Now: now, HashPassword: hasher.Hash})
	require.NoError(t, err)

	f := &fixture{
		store:  store.New(data),
		outbox: repository.NewMemoryOutboxRepository(),
	}
	deps := service.Dependencies{
		Store:  f.store,
		Outbox: f.outbox,
		Logger: logger.NewNopLogger(),
		Clock:  func() time.Time { return now },
	}
	tokens := auth.NewTokenManager("test-secret", 24*time.Hour).WithClock(deps.Clock)

	f.auth = service.NewAuthService(deps, tokens, hasher, auth.NewMemoryRevoker().WithClock(deps.Clock))
	f.users = service.NewUserService(deps, hasher)
	f.customers = service.NewCustomerService(deps)
	f.products = service.NewProductService(deps)
	f.orders = service.NewOrderService(deps)
	f.reviews = service.NewReviewService(deps)
	f.dashboard = service.NewDashboardService(deps)
	return f
}

// newProduct creates a product with the given stock priced at 10,000원
func (f *fixture) newProduct(t *testing.T, name string, stock int) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), superAdmin, service.CreateProductInput{
		Name:     name,
		Category: models.CategoryBooks,
		Price:    "10000",
		Stock:    &stock,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) newCustomer(t *testing.T, email string) *models.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), service.CreateCustomerInput{
		Name:  "Test Customer",
		Email: email,
		Phone: "010-1234-5678",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) eventTypes(t *testing.T) []string {
	t.Helper()
	pending, err := f.outbox.GetPendingMessages(context.Background(), 100)
	require.NoError(t, err)
	types := make([]string, len(pending))
	for i, m := range pending {
		types[i] = m.EventType
	}
	return types
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, errors.CodeOf(err), err.Error())
}
