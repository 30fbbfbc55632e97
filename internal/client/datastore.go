package client

import (
	"context"
	"sync"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/service"
)

// Collection is the last fetched page of one entity type
type Collection[T any] struct {
	Items []T
	// Pagination is nil until a paged fetch completes
	Pagination *query.Pagination
}

func (c Collection[T]) clone() Collection[T] {
	out := Collection[T]{Items: append([]T(nil), c.Items...)}
	if c.Pagination != nil {
		p := *c.Pagination
		out.Pagination = &p
	}
	return out
}

// DataStore mirrors the pages an admin screen is looking at. Fetches replace
// a collection; mutations call the API and then patch the local copy.
type DataStore struct {
	client *Client

	mu        sync.RWMutex
	users     Collection[models.User]
	customers Collection[models.Customer]
	products  Collection[models.Product]
	orders    Collection[models.Order]
	reviews   Collection[models.Review]
	dashboard *service.DashboardStats
	loading   bool
	err       error
}

// NewDataStore creates an empty store backed by client
func NewDataStore(client *Client) *DataStore {
	return &DataStore{client: client}
}

// Loading reports whether a request is in flight
func (s *DataStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error of the last action, if it failed
func (s *DataStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *DataStore) Users() Collection[models.User] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.clone()
}

func (s *DataStore) Customers() Collection[models.Customer] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers.clone()
}

func (s *DataStore) Products() Collection[models.Product] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.clone()
}

func (s *DataStore) Orders() Collection[models.Order] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orders.clone()
}

func (s *DataStore) Reviews() Collection[models.Review] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviews.clone()
}

// Dashboard returns the last fetched dashboard, or nil
func (s *DataStore) Dashboard() *service.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard
}

// run marks the store loading around fn and records its error
func (s *DataStore) run(fn func() error) error {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	s.loading = false
	s.err = err
	s.mu.Unlock()
	return err
}

// patch applies fn to the local state under the write lock
func (s *DataStore) patch(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
}

func fetchPage[T any](s *DataStore, dst *Collection[T], fetch func() (*query.Page[T], error)) error {
	return s.run(func() error {
		page, err := fetch()
		if err != nil {
			return err
		}
		s.patch(func() {
			p := page.Pagination
			*dst = Collection[T]{Items: page.Items, Pagination: &p}
		})
		return nil
	})
}

// fetchAll pages through the whole collection at the maximum page size
func fetchAll[T any](ctx context.Context, s *DataStore, dst *Collection[T], list func(context.Context, QueryParams) (*query.Page[T], error)) error {
	return s.run(func() error {
		var items []T
		for page := 1; ; page++ {
			p, err := list(ctx, QueryParams{Page: page, Limit: query.MaxLimit})
			if err != nil {
				return err
			}
			items = append(items, p.Items...)
			if page >= p.Pagination.TotalPages {
				break
			}
		}
		s.patch(func() { *dst = Collection[T]{Items: items} })
		return nil
	})
}

func replaceByID[T any](items []T, id string, idOf func(T) string, v T) {
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = v
			return
		}
	}
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

func userID(u models.User) string         { return u.ID }
func customerID(c models.Customer) string { return c.ID }
func productID(p models.Product) string   { return p.ID }
func orderID(o models.Order) string       { return o.ID }
func reviewID(r models.Review) string     { return r.ID }

func (s *DataStore) FetchUsers(ctx context.Context, q QueryParams) error {
	return fetchPage(s, &s.users, func() (*query.Page[models.User], error) { return s.client.ListUsers(ctx, q) })
}

func (s *DataStore) FetchCustomers(ctx context.Context, q QueryParams) error {
	return fetchPage(s, &s.customers, func() (*query.Page[models.Customer], error) { return s.client.ListCustomers(ctx, q) })
}

func (s *DataStore) FetchProducts(ctx context.Context, q QueryParams) error {
	return fetchPage(s, &s.products, func() (*query.Page[models.Product], error) { return s.client.ListProducts(ctx, q) })
}

func (s *DataStore) FetchOrders(ctx context.Context, q QueryParams) error {
	return fetchPage(s, &s.orders, func() (*query.Page[models.Order], error) { return s.client.ListOrders(ctx, q) })
}

func (s *DataStore) FetchReviews(ctx context.Context, q QueryParams) error {
	return fetchPage(s, &s.reviews, func() (*query.Page[models.Review], error) { return s.client.ListReviews(ctx, q) })
}

// FetchAllCustomers loads every customer, e.g. for an order form picker
func (s *DataStore) FetchAllCustomers(ctx context.Context) error {
	return fetchAll(ctx, s, &s.customers, s.client.ListCustomers)
}

// FetchAllProducts loads every product
func (s *DataStore) FetchAllProducts(ctx context.Context) error {
	return fetchAll(ctx, s, &s.products, s.client.ListProducts)
}

func (s *DataStore) FetchDashboard(ctx context.Context) error {
	return s.run(func() error {
		stats, err := s.client.DashboardStats(ctx)
		if err != nil {
			return err
		}
		s.patch(func() { s.dashboard = stats })
		return nil
	})
}

func (s *DataStore) AddUser(ctx context.Context, in service.CreateUserInput) error {
	return s.run(func() error {
		u, err := s.client.CreateUser(ctx, in)
		if err != nil {
			return err
		}
		s.patch(func() { s.users.Items = append(s.users.Items, *u) })
		return nil
	})
}

// updateUser replaces the local copy with what the server returned
func (s *DataStore) updateUser(id string, call func() (*models.User, error)) error {
	return s.run(func() error {
		u, err := call()
		if err != nil {
			return err
		}
		s.patch(func() { replaceByID(s.users.Items, id, userID, *u) })
		return nil
	})
}

func (s *DataStore) UpdateUser(ctx context.Context, id string, in service.ProfileInput) error {
	return s.updateUser(id, func() (*models.User, error) { return s.client.UpdateUser(ctx, id, in) })
}

func (s *DataStore) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	return s.updateUser(id, func() (*models.User, error) { return s.client.UpdateUserRole(ctx, id, role) })
}

func (s *DataStore) UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) error {
	return s.updateUser(id, func() (*models.User, error) { return s.client.UpdateUserStatus(ctx, id, status) })
}

func (s *DataStore) ApproveUser(ctx context.Context, id string) error {
	return s.updateUser(id, func() (*models.User, error) { return s.client.ApproveUser(ctx, id) })
}

func (s *DataStore) RejectUser(ctx context.Context, id, reason string) error {
	return s.updateUser(id, func() (*models.User, error) { return s.client.RejectUser(ctx, id, reason) })
}

func (s *DataStore) DeleteUser(ctx context.Context, id string) error {
	return s.run(func() error {
		if err := s.client.DeleteUser(ctx, id); err != nil {
			return err
		}
		s.patch(func() { s.users.Items = removeByID(s.users.Items, id, userID) })
		return nil
	})
}

func (s *DataStore) AddCustomer(ctx context.Context, in service.CreateCustomerInput) error {
	return s.run(func() error {
		c, err := s.client.CreateCustomer(ctx, in)
		if err != nil {
			return err
		}
		s.patch(func() { s.customers.Items = append(s.customers.Items, *c) })
		return nil
	})
}

func (s *DataStore) updateCustomer(id string, call func() (*models.Customer, error)) error {
	return s.run(func() error {
		c, err := call()
		if err != nil {
			return err
		}
		s.patch(func() { replaceByID(s.customers.Items, id, customerID, *c) })
		return nil
	})
}

func (s *DataStore) UpdateCustomer(ctx context.Context, id string, in service.UpdateCustomerInput) error {
	return s.updateCustomer(id, func() (*models.Customer, error) { return s.client.UpdateCustomer(ctx, id, in) })
}

func (s *DataStore) UpdateCustomerStatus(ctx context.Context, id string, status models.CustomerStatus) error {
	return s.updateCustomer(id, func() (*models.Customer, error) { return s.client.UpdateCustomerStatus(ctx, id, status) })
}

func (s *DataStore) DeleteCustomer(ctx context.Context, id string) error {
	return s.run(func() error {
		if err := s.client.DeleteCustomer(ctx, id); err != nil {
			return err
		}
		s.patch(func() { s.customers.Items = removeByID(s.customers.Items, id, customerID) })
		return nil
	})
}

func (s *DataStore) AddProduct(ctx context.Context, in service.CreateProductInput) error {
	return s.run(func() error {
		p, err := s.client.CreateProduct(ctx, in)
		if err != nil {
			return err
		}
		s.patch(func() { s.products.Items = append(s.products.Items, *p) })
		return nil
	})
}

func (s *DataStore) updateProduct(id string, call func() (*models.Product, error)) error {
	return s.run(func() error {
		p, err := call()
		if err != nil {
			return err
		}
		s.patch(func() { replaceByID(s.products.Items, id, productID, *p) })
		return nil
	})
}

func (s *DataStore) UpdateProduct(ctx context.Context, id string, in service.UpdateProductInput) error {
	return s.updateProduct(id, func() (*models.Product, error) { return s.client.UpdateProduct(ctx, id, in) })
}

func (s *DataStore) UpdateProductStock(ctx context.Context, id string, stock int) error {
	return s.updateProduct(id, func() (*models.Product, error) { return s.client.UpdateProductStock(ctx, id, stock) })
}

func (s *DataStore) UpdateProductStatus(ctx context.Context, id string, status models.ProductStatus) error {
	return s.updateProduct(id, func() (*models.Product, error) { return s.client.UpdateProductStatus(ctx, id, status) })
}

func (s *DataStore) DeleteProduct(ctx context.Context, id string) error {
	return s.run(func() error {
		if err := s.client.DeleteProduct(ctx, id); err != nil {
			return err
		}
		s.patch(func() { s.products.Items = removeByID(s.products.Items, id, productID) })
		return nil
	})
}

// AddOrder prepends the new order, matching the newest first listing
func (s *DataStore) AddOrder(ctx context.Context, in service.CreateOrderInput) error {
	return s.run(func() error {
		o, err := s.client.CreateOrder(ctx, in)
		if err != nil {
			return err
		}
		s.patch(func() { s.orders.Items = append([]models.Order{*o}, s.orders.Items...) })
		return nil
	})
}

func (s *DataStore) UpdateOrderStatus(ctx context.Context, id string, in service.ChangeOrderStatusInput) error {
	return s.run(func() error {
		o, err := s.client.UpdateOrderStatus(ctx, id, in)
		if err != nil {
			return err
		}
		s.patch(func() { replaceByID(s.orders.Items, id, orderID, *o) })
		return nil
	})
}

func (s *DataStore) DeleteOrder(ctx context.Context, id string) error {
	return s.run(func() error {
		if err := s.client.DeleteOrder(ctx, id); err != nil {
			return err
		}
		s.patch(func() { s.orders.Items = removeByID(s.orders.Items, id, orderID) })
		return nil
	})
}

func (s *DataStore) AddReview(ctx context.Context, in service.CreateReviewInput) error {
	return s.run(func() error {
		r, err := s.client.CreateReview(ctx, in)
		if err != nil {
			return err
		}
		s.patch(func() { s.reviews.Items = append(s.reviews.Items, *r) })
		return nil
	})
}

func (s *DataStore) DeleteReview(ctx context.Context, id string) error {
	return s.run(func() error {
		if err := s.client.DeleteReview(ctx, id); err != nil {
			return err
		}
		s.patch(func() { s.reviews.Items = removeByID(s.reviews.Items, id, reviewID) })
		return nil
	})
}
