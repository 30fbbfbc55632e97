// Package store holds the in-memory entity collections.
//
// Every read and mutation runs inside View or Update, so each request's
// business logic observes and leaves a consistent dataset.
package store

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vaidashi/backoffice-api/internal/models"
)

// ErrNotFound is returned by lookups that find nothing
var ErrNotFound = errors.New("record not found")

// Dataset is the full set of entity collections.
// Orders and Products are kept newest first.
type Dataset struct {
	Users     []*models.User
	Customers []*models.Customer
	Products  []*models.Product
	Orders    []*models.Order
	Reviews   []*models.Review
}

// Store guards a Dataset with a read/write lock
type Store struct {
	mu   sync.RWMutex
	data *Dataset
}

// New creates a Store around data
func New(data *Dataset) *Store {
	if data == nil {
		data = &Dataset{}
	}
	return &Store{data: data}
}

// View runs fn with shared access. fn must not mutate the dataset.
func (s *Store) View(fn func(d *Dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// Update runs fn with exclusive access
func (s *Store) Update(fn func(d *Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Replace swaps the whole dataset, e.g. to reseed
func (s *Store) Replace(data *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// FindUser returns the user with id
func (d *Dataset) FindUser(id string) (*models.User, error) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

// FindUserByEmail returns the user registered with email
func (d *Dataset) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range d.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

// UserEmailTaken reports whether email belongs to a user other than exceptID
func (d *Dataset) UserEmailTaken(email, exceptID string) bool {
	for _, u := range d.Users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

// RemoveUser deletes the user with id
func (d *Dataset) RemoveUser(id string) error {
	for i, u := range d.Users {
		if u.ID == id {
			d.Users = append(d.Users[:i], d.Users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (d *Dataset) FindCustomer(id string) (*models.Customer, error) {
	for _, c := range d.Customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (d *Dataset) FindCustomerByName(name string) (*models.Customer, error) {
	for _, c := range d.Customers {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// CustomerEmailTaken reports whether email belongs to a customer other than exceptID
func (d *Dataset) CustomerEmailTaken(email, exceptID string) bool {
	for _, c := range d.Customers {
		if c.Email == email && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (d *Dataset) RemoveCustomer(id string) error {
	for i, c := range d.Customers {
		if c.ID == id {
			d.Customers = append(d.Customers[:i], d.Customers[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (d *Dataset) FindProduct(id string) (*models.Product, error) {
	for _, p := range d.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (d *Dataset) FindProductByName(name string) (*models.Product, error) {
	for _, p := range d.Products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (d *Dataset) RemoveProduct(id string) error {
	for i, p := range d.Products {
		if p.ID == id {
			d.Products = append(d.Products[:i], d.Products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (d *Dataset) FindOrder(id string) (*models.Order, error) {
	for _, o := range d.Orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func (d *Dataset) RemoveOrder(id string) error {
	for i, o := range d.Orders {
		if o.ID == id {
			d.Orders = append(d.Orders[:i], d.Orders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// OrdersOfCustomer returns every order placed by the customer
func (d *Dataset) OrdersOfCustomer(customerID string) []*models.Order {
	var out []*models.Order
	for _, o := range d.Orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

// CountOrdersOfProduct counts orders of the product regardless of status
func (d *Dataset) CountOrdersOfProduct(productID string) int {
	n := 0
	for _, o := range d.Orders {
		if o.ProductID == productID {
			n++
		}
	}
	return n
}

func (d *Dataset) FindReview(id string) (*models.Review, error) {
	for _, r := range d.Reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// FindReviewOfOrder returns the review written for an order
func (d *Dataset) FindReviewOfOrder(orderID string) (*models.Review, error) {
	for _, r := range d.Reviews {
		if r.OrderID == orderID {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// ReviewsOfProduct returns the product's reviews in collection order
func (d *Dataset) ReviewsOfProduct(productID string) []*models.Review {
	var out []*models.Review
	for _, r := range d.Reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

// CountReviewsOfCustomer counts reviews written by the customer
func (d *Dataset) CountReviewsOfCustomer(customerID string) int {
	n := 0
	for _, r := range d.Reviews {
		if r.CustomerID == customerID {
			n++
		}
	}
	return n
}

func (d *Dataset) RemoveReview(id string) error {
	for i, r := range d.Reviews {
		if r.ID == id {
			d.Reviews = append(d.Reviews[:i], d.Reviews[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// RecalculateCustomer re-derives a customer's order count and spend from
// their non-cancelled orders. Unknown customers are ignored.
func (d *Dataset) RecalculateCustomer(customerID string) {
	c, err := d.FindCustomer(customerID)
	if err != nil {
		return
	}
	count := 0
	spent := decimal.Zero
	for _, o := range d.OrdersOfCustomer(customerID) {
		if o.Active() {
			count++
			spent = spent.Add(models.ParseAmount(o.Amount))
		}
	}
	c.TotalOrders = count
	c.TotalSpent = models.FormatAmount(spent)
}

// RecalculateAllCustomers re-derives totals of every customer
func (d *Dataset) RecalculateAllCustomers() {
	for _, c := range d.Customers {
		d.RecalculateCustomer(c.ID)
	}
}
