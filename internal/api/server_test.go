package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaidashi/backoffice-api/internal/api"
	"github.com/vaidashi/backoffice-api/internal/config"
	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/pkg/errors"
	"github.com/vaidashi/backoffice-api/pkg/logger"
)

var now = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

type envelope struct {
	Success bool                `json:"success"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  []errors.FieldError `json:"errors"`
}

func testConfig() *config.Config {
	return &config.Config{
		Port:     0,
		LogLevel: "error",
		Env:      "test",
		Seed:     7,
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Outbox: config.OutboxConfig{
			Driver:       config.OutboxDriverMemory,
			PollInterval: time.Second,
			BatchSize:    10,
			MaxRetries:   3,
		},
		RateLimit: config.RateLimitConfig{Burst: 100, PerSecond: 100},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	srv, err := api.NewServer(cfg, logger.NewNopLogger(), api.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func login(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()
	status, env := call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, env.Message)

	var result struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, email, result.User.Email)
	return result.Token
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, testConfig())

	status, env := call(t, ts, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, errors.CodeOK, env.Code)

	var health api.Health
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "memory", health.Outbox)
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, testConfig())

	t.Run("account states", func(t *testing.T) {
		tests := []struct {
			email    string
			password string
			status   int
			code     string
		}{
			{"pending@sparta.com", "password123", http.StatusForbidden, errors.CodeAccountPending},
			{"rejected@sparta.com", "password123", http.StatusForbidden, errors.CodeAccountRejected},
			{"suspended@sparta.com", "password123", http.StatusForbidden, errors.CodeAccountSuspended},
			{"jung@sparta.com", "password123", http.StatusForbidden, errors.CodeAccountInactive},
			{"admin@sparta.com", "wrong-password", http.StatusUnauthorized, errors.CodeInvalidCredentials},
			{"nobody@sparta.com", "password123", http.StatusUnauthorized, errors.CodeInvalidCredentials},
		}
		for _, tt := range tests {
			status, env := call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{"email": tt.email, "password": tt.password})
			assert.Equal(t, tt.status, status, tt.email)
			assert.Equal(t, tt.code, env.Code, tt.email)
			assert.False(t, env.Success)
			assert.Empty(t, env.Data, "no token on failure")
		}
	})

	t.Run("missing and bad tokens", func(t *testing.T) {
		status, env := call(t, ts, http.MethodGet, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, errors.CodeUnauthorized, env.Code)

		status, env = call(t, ts, http.MethodGet, "/api/users/me", "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, errors.CodeInvalidToken, env.Code)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		token := login(t, ts, "operation@sparta.com", "password123")

		status, env := call(t, ts, http.MethodGet, "/api/users/me", token, nil)
		require.Equal(t, http.StatusOK, status)
		var me models.User
		require.NoError(t, json.Unmarshal(env.Data, &me))
		assert.Equal(t, "1", me.ID)

		status, _ = call(t, ts, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, status)

		status, env = call(t, ts, http.MethodGet, "/api/users/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, errors.CodeInvalidToken, env.Code)
	})

	t.Run("register then approve", func(t *testing.T) {
		status, env := call(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "신규", "email": "new@sparta.com", "password": "password123",
			"phone": "010-1234-5678", "role": "CS_ADMIN",
		})
		require.Equal(t, http.StatusCreated, status, env.Message)
		assert.Equal(t, errors.CodeCreated, env.Code)
		var created models.User
		require.NoError(t, json.Unmarshal(env.Data, &created))
		assert.Equal(t, models.UserStatusPending, created.Status)
		assert.NotContains(t, string(env.Data), "password")

		status, env = call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "new@sparta.com", "password": "password123"})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, errors.CodeAccountPending, env.Code)

		admin := login(t, ts, "admin@sparta.com", "sparta1234")
		status, _ = call(t, ts, http.MethodPost, "/api/users/"+created.ID+"/approve", admin, nil)
		require.Equal(t, http.StatusOK, status)
		login(t, ts, "new@sparta.com", "password123")

		status, env = call(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "중복", "email": "new@sparta.com", "password": "password123", "phone": "010-0000-1111", "role": "CS_ADMIN",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, errors.CodeDuplicateEmail, env.Code)
	})
}

func TestRolePermissions(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, testConfig())

	cs := login(t, ts, "cs@sparta.com", "password123")
	ops := login(t, ts, "operation@sparta.com", "password123")

	tests := []struct {
		name   string
		token  string
		method string
		path   string
		status int
	}{
		{"cs cannot list users", cs, http.MethodGet, "/api/users", http.StatusForbidden},
		{"ops cannot list users", ops, http.MethodGet, "/api/users", http.StatusForbidden},
		{"cs cannot delete customers", cs, http.MethodDelete, "/api/customers/C001", http.StatusForbidden},
		{"ops cannot delete customers", ops, http.MethodDelete, "/api/customers/C001", http.StatusForbidden},
		{"cs cannot delete orders", cs, http.MethodDelete, "/api/orders/ORDER-0001", http.StatusForbidden},
		{"cs cannot change stock", cs, http.MethodPatch, "/api/products/P001/stock", http.StatusForbidden},
		{"cs can read dashboard", cs, http.MethodGet, "/api/dashboard/stats", http.StatusOK},
		{"cs can read products", cs, http.MethodGet, "/api/products/P001", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, ts, tt.method, tt.path, tt.token, map[string]int{"stock": 1})
			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, errors.CodeForbidden, env.Code)
			}
		})
	}
}

func TestListPagination(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, testConfig())
	token := login(t, ts, "admin@sparta.com", "sparta1234")

	status, env := call(t, ts, http.MethodGet, "/api/products?page=2&limit=10&sortBy=price&sortOrder=desc", token, nil)
	require.Equal(t, http.StatusOK, status)

	var page query.Page[models.Product]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 10)
	assert.Equal(t, query.Pagination{Page: 2, Limit: 10, Total: 100, TotalPages: 10}, page.Pagination)
	for i := 1; i < len(page.Items); i++ {
		assert.True(t, models.ParseAmount(page.Items[i-1].Price).GreaterThanOrEqual(models.ParseAmount(page.Items[i].Price)))
	}

	status, env = call(t, ts, http.MethodGet, "/api/users?status=PENDING", token, nil)
	require.Equal(t, http.StatusOK, status)
	var users query.Page[models.User]
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users.Items, 1)
	assert.Equal(t, "pending@sparta.com", users.Items[0].Email)
}

func TestOrderLifecycle(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, testConfig())
	admin := login(t, ts, "admin@sparta.com", "sparta1234")
	cs := login(t, ts, "cs@sparta.com", "password123")

	status, env := call(t, ts, http.MethodPost, "/api/products", admin, map[string]interface{}{
		"name": "한정판 도서", "category": "BOOKS", "price": "15000", "stock": 3,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var product models.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "P101", product.ID)
	assert.Equal(t, "0", product.CreatedBy)

	status, env = call(t, ts, http.MethodPost, "/api/orders", cs, map[string]interface{}{
		"customerId": "C041", "productId": product.ID, "quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeInsufficientStock, env.Code)
	assert.Contains(t, env.Message, "3")

	status, env = call(t, ts, http.MethodPost, "/api/orders", cs, map[string]interface{}{
		"customerId": "C041", "productId": product.ID, "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNo, "20250615-"))

	status, env = call(t, ts, http.MethodGet, "/api/products/"+product.ID, cs, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, 0, product.Stock)
	assert.Equal(t, models.ProductStatusSoldOut, product.Status)

	status, env = call(t, ts, http.MethodPost, "/api/orders", cs, map[string]interface{}{
		"customerId": "C041", "productId": product.ID,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeProductSoldOut, env.Code)

	status, env = call(t, ts, http.MethodDelete, "/api/customers/C041", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeHasRelatedData, env.Code)

	status, env = call(t, ts, http.MethodPatch, "/api/orders/"+order.ID+"/status", cs, map[string]string{
		"status": "CANCELLED", "cancellationReason": "고객 요청",
	})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = call(t, ts, http.MethodPatch, "/api/orders/"+order.ID+"/status", cs, map[string]string{"status": "SHIPPING"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeInvalidStatusChange, env.Code)

	status, env = call(t, ts, http.MethodGet, "/api/products/"+product.ID, cs, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, models.ProductStatusAvailable, product.Status)
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, testConfig())
	token := login(t, ts, "admin@sparta.com", "sparta1234")

	status, env := call(t, ts, http.MethodPost, "/api/customers", token, `{"name": `)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeValidation, env.Code)

	status, env = call(t, ts, http.MethodPost, "/api/customers", token, map[string]string{"name": "", "email": "bad"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeValidation, env.Code)
	assert.NotEmpty(t, env.Errors)

	status, env = call(t, ts, http.MethodGet, "/api/orders/ORDER-9999", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, errors.CodeNotFound, env.Code)

	status, env = call(t, ts, http.MethodGet, "/api/nothing-here", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)

	status, env = call(t, ts, http.MethodPut, "/api/orders/ORDER-0001", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, errors.CodeMethodNotAllowed, env.Code)
	assert.False(t, env.Success)
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Burst: 2, PerSecond: 0.01}
	ts := newTestServer(t, cfg)

	creds := map[string]string{"email": "admin@sparta.com", "password": "wrong-password"}
	for i := 0; i < 2; i++ {
		status, _ := call(t, ts, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, env := call(t, ts, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, errors.CodeRateLimited, env.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, testConfig())

	call(t, ts, http.MethodGet, "/api/health", "", nil)

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/health",status_code="200"} 1`)
}
