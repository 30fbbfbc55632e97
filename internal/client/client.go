// Package client is a typed wrapper around the backoffice HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/service"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

// APIError is a failed API response
type APIError struct {
	Status  int
	Code    string
	Message string
	Errors  []errors.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// CodeOf returns the envelope code carried by err, or "" for transport errors
func CodeOf(err error) string {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// QueryParams are the list parameters accepted by every collection endpoint
type QueryParams struct {
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	// Filters are entity specific, e.g. status or category
	Filters map[string]string
}

func (q QueryParams) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	for key, value := range q.Filters {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v
}

type envelope struct {
	Success bool                `json:"success"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  []errors.FieldError `json:"errors"`
}

// Client calls the API on behalf of one administrator session
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the API served at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token, e.g. one restored from storage
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// do sends one request and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Code: "PARSE_ERROR", Message: "failed to parse response"}
	}

	if !env.Success {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    env.Code,
			Message: env.Message,
			Errors:  env.Errors,
		}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// send performs the request and decodes data into a fresh T
func send[T any](ctx context.Context, c *Client, method, path string, params url.Values, body interface{}) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, params, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

// Health reports the server status
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates and keeps the issued token for later calls
func (c *Client) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	var out service.LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Logout revokes the session token and forgets it locally
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPost, "/api/auth/register", nil, in)
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/api/auth/password", nil, body, nil)
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodGet, "/api/users/me", nil, nil)
}

func (c *Client) UpdateMe(ctx context.Context, in service.ProfileInput) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPatch, "/api/users/me", nil, in)
}

func (c *Client) ListUsers(ctx context.Context, q QueryParams) (*query.Page[models.User], error) {
	return send[query.Page[models.User]](ctx, c, http.MethodGet, "/api/users", q.values(), nil)
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodGet, "/api/users/"+escape(id), nil, nil)
}

func (c *Client) CreateUser(ctx context.Context, in service.CreateUserInput) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPost, "/api/users", nil, in)
}

func (c *Client) UpdateUser(ctx context.Context, id string, in service.ProfileInput) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPut, "/api/users/"+escape(id), nil, in)
}

func (c *Client) UpdateUserRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPatch, "/api/users/"+escape(id)+"/role", nil, map[string]models.Role{"role": role})
}

func (c *Client) UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPatch, "/api/users/"+escape(id)+"/status", nil, map[string]models.UserStatus{"status": status})
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+escape(id), nil, nil, nil)
}

func (c *Client) ApproveUser(ctx context.Context, id string) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPost, "/api/users/"+escape(id)+"/approve", nil, nil)
}

func (c *Client) RejectUser(ctx context.Context, id, reason string) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPost, "/api/users/"+escape(id)+"/reject", nil, map[string]string{"rejectionReason": reason})
}

func (c *Client) ListCustomers(ctx context.Context, q QueryParams) (*query.Page[models.Customer], error) {
	return send[query.Page[models.Customer]](ctx, c, http.MethodGet, "/api/customers", q.values(), nil)
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return send[models.Customer](ctx, c, http.MethodGet, "/api/customers/"+escape(id), nil, nil)
}

func (c *Client) CreateCustomer(ctx context.Context, in service.CreateCustomerInput) (*models.Customer, error) {
	return send[models.Customer](ctx, c, http.MethodPost, "/api/customers", nil, in)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, in service.UpdateCustomerInput) (*models.Customer, error) {
	return send[models.Customer](ctx, c, http.MethodPatch, "/api/customers/"+escape(id), nil, in)
}

func (c *Client) UpdateCustomerStatus(ctx context.Context, id string, status models.CustomerStatus) (*models.Customer, error) {
	return send[models.Customer](ctx, c, http.MethodPatch, "/api/customers/"+escape(id)+"/status", nil, map[string]models.CustomerStatus{"status": status})
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/customers/"+escape(id), nil, nil, nil)
}

func (c *Client) ListProducts(ctx context.Context, q QueryParams) (*query.Page[models.Product], error) {
	return send[query.Page[models.Product]](ctx, c, http.MethodGet, "/api/products", q.values(), nil)
}

// GetProduct returns the product with its review summary
func (c *Client) GetProduct(ctx context.Context, id string) (*models.ProductDetail, error) {
	return send[models.ProductDetail](ctx, c, http.MethodGet, "/api/products/"+escape(id), nil, nil)
}

func (c *Client) CreateProduct(ctx context.Context, in service.CreateProductInput) (*models.Product, error) {
	return send[models.Product](ctx, c, http.MethodPost, "/api/products", nil, in)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in service.UpdateProductInput) (*models.Product, error) {
	return send[models.Product](ctx, c, http.MethodPut, "/api/products/"+escape(id), nil, in)
}

func (c *Client) UpdateProductStock(ctx context.Context, id string, stock int) (*models.Product, error) {
	return send[models.Product](ctx, c, http.MethodPatch, "/api/products/"+escape(id)+"/stock", nil, map[string]int{"stock": stock})
}

func (c *Client) UpdateProductStatus(ctx context.Context, id string, status models.ProductStatus) (*models.Product, error) {
	return send[models.Product](ctx, c, http.MethodPatch, "/api/products/"+escape(id)+"/status", nil, map[string]models.ProductStatus{"status": status})
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+escape(id), nil, nil, nil)
}

func (c *Client) ListOrders(ctx context.Context, q QueryParams) (*query.Page[models.Order], error) {
	return send[query.Page[models.Order]](ctx, c, http.MethodGet, "/api/orders", q.values(), nil)
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return send[models.Order](ctx, c, http.MethodGet, "/api/orders/"+escape(id), nil, nil)
}

func (c *Client) CreateOrder(ctx context.Context, in service.CreateOrderInput) (*models.Order, error) {
	return send[models.Order](ctx, c, http.MethodPost, "/api/orders", nil, in)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, in service.ChangeOrderStatusInput) (*models.Order, error) {
	return send[models.Order](ctx, c, http.MethodPatch, "/api/orders/"+escape(id)+"/status", nil, in)
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/orders/"+escape(id), nil, nil, nil)
}

func (c *Client) ListReviews(ctx context.Context, q QueryParams) (*query.Page[models.Review], error) {
	return send[query.Page[models.Review]](ctx, c, http.MethodGet, "/api/reviews", q.values(), nil)
}

func (c *Client) GetReview(ctx context.Context, id string) (*models.Review, error) {
	return send[models.Review](ctx, c, http.MethodGet, "/api/reviews/"+escape(id), nil, nil)
}

func (c *Client) CreateReview(ctx context.Context, in service.CreateReviewInput) (*models.Review, error) {
	return send[models.Review](ctx, c, http.MethodPost, "/api/reviews", nil, in)
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/reviews/"+escape(id), nil, nil, nil)
}

// DashboardStats returns the freshly computed dashboard
func (c *Client) DashboardStats(ctx context.Context) (*service.DashboardStats, error) {
	return send[service.DashboardStats](ctx, c, http.MethodGet, "/api/dashboard/stats", nil, nil)
}
