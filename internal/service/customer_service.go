package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

var CustomerSearchFields = []string{"name", "email", "phone"}

type CreateCustomerInput struct {
	Name   string                `json:"name"`
	Email  string                `json:"email"`
	Phone  string                `json:"phone"`
	Status models.CustomerStatus `json:"status"`
}

// UpdateCustomerInput is a partial update. Derived totals are not writable.
type UpdateCustomerInput struct {
	Name   *string                `json:"name"`
	Email  *string                `json:"email"`
	Phone  *string                `json:"phone"`
	Status *models.CustomerStatus `json:"status"`
}

// CustomerService manages shopper accounts
type CustomerService struct {
	Dependencies
}

func NewCustomerService(deps Dependencies) *CustomerService {
	return &CustomerService{Dependencies: deps}
}

func (s *CustomerService) List(ctx context.Context, opts query.Options) (query.Page[models.Customer], error) {
	var customers []models.Customer
	_ = s.Store.View(func(d *store.Dataset) error {
		customers = make([]models.Customer, len(d.Customers))
		for i, c := range d.Customers {
			customers[i] = *c
		}
		return nil
	})
	return query.Apply(customers, opts), nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := s.Store.View(func(d *store.Dataset) error {
		c, err := findCustomer(d, id)
		if err != nil {
			return err
		}
		customer = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create adds a customer with zeroed totals. Status defaults to ACTIVE.
func (s *CustomerService) Create(ctx context.Context, in CreateCustomerInput) (*models.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Status == "" {
		in.Status = models.CustomerStatusActive
	}

	v := &validator{}
	v.required(in.Name, "name")
	v.email(in.Email, "email")
	v.check(in.Status.Valid(), "status", "invalid status")
	if err := v.err(); err != nil {
		return nil, err
	}

	var created models.Customer
	err := s.Store.Update(func(d *store.Dataset) error {
		if d.CustomerEmailTaken(in.Email, "") {
			return errors.NewDuplicateEmailError()
		}
		ids := make([]string, len(d.Customers))
		for i, c := range d.Customers {
			ids[i] = c.ID
		}
		c := &models.Customer{
			ID:         fmt.Sprintf("C%03d", nextSeq(ids, "C")),
			Name:       in.Name,
			Email:      in.Email,
			Phone:      in.Phone,
			Status:     in.Status,
			CreatedAt:  s.today(),
			TotalSpent: models.FormatAmount(decimal.Zero),
		}
		d.Customers = append(d.Customers, c)
		created = *c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Customer created", "customer_id", created.ID)
	return &created, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in UpdateCustomerInput) (*models.Customer, error) {
	in.Name, in.Email, in.Phone = trimmed(in.Name), trimmed(in.Email), trimmed(in.Phone)

	v := &validator{}
	if in.Name != nil {
		v.required(*in.Name, "name")
	}
	if in.Email != nil {
		v.email(*in.Email, "email")
	}
	if in.Status != nil {
		v.check(in.Status.Valid(), "status", "invalid status")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	var updated models.Customer
	err := s.Store.Update(func(d *store.Dataset) error {
		c, err := findCustomer(d, id)
		if err != nil {
			return err
		}
		if in.Email != nil && d.CustomerEmailTaken(*in.Email, c.ID) {
			return errors.NewDuplicateEmailError()
		}
		if in.Name != nil {
			c.Name = *in.Name
		}
		if in.Email != nil {
			c.Email = *in.Email
		}
		if in.Phone != nil {
			c.Phone = *in.Phone
		}
		if in.Status != nil {
			c.Status = *in.Status
		}
		updated = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *CustomerService) ChangeStatus(ctx context.Context, id string, status models.CustomerStatus) (*models.Customer, error) {
	if !status.Valid() {
		return nil, errors.NewValidationError("invalid status").WithField("status", "invalid status")
	}
	customer, err := s.Update(ctx, id, UpdateCustomerInput{Status: &status})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Customer status changed", "customer_id", id, "status", status)
	return customer, nil
}

// Delete removes a customer that has neither orders nor reviews
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	err := s.Store.Update(func(d *store.Dataset) error {
		if _, err := findCustomer(d, id); err != nil {
			return err
		}
		if n := len(d.OrdersOfCustomer(id)); n > 0 {
			return errors.NewBusinessError(errors.CodeHasRelatedData,
				fmt.Sprintf("customer has %d orders and cannot be deleted", n))
		}
		if n := d.CountReviewsOfCustomer(id); n > 0 {
			return errors.NewBusinessError(errors.CodeHasRelatedData,
				fmt.Sprintf("customer has %d reviews and cannot be deleted", n))
		}
		return d.RemoveCustomer(id)
	})
	if err != nil {
		return err
	}

	s.emit(ctx, models.AggregateCustomer, id, models.EventCustomerDeleted, map[string]interface{}{"customer_id": id})
	s.Logger.Info("Customer deleted", "customer_id", id)
	return nil
}
