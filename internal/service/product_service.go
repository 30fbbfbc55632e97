package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

var ProductSearchFields = []string{"name", "category"}

// recentReviewCount is how many reviews a product detail carries
const recentReviewCount = 3

type CreateProductInput struct {
	Name     string               `json:"name"`
	Category models.Category      `json:"category"`
	Price    string               `json:"price"`
	Stock    *int                 `json:"stock"`
	Status   models.ProductStatus `json:"status"`
	Image    string               `json:"image"`
}

// UpdateProductInput changes basic info. Stock and status have their own operations.
type UpdateProductInput struct {
	Name     *string          `json:"name"`
	Category *models.Category `json:"category"`
	Price    *string          `json:"price"`
}

// ProductService manages the catalogue
type ProductService struct {
	Dependencies
}

func NewProductService(deps Dependencies) *ProductService {
	return &ProductService{Dependencies: deps}
}

func (s *ProductService) List(ctx context.Context, opts query.Options) (query.Page[models.Product], error) {
	var products []models.Product
	_ = s.Store.View(func(d *store.Dataset) error {
		products = make([]models.Product, len(d.Products))
		for i, p := range d.Products {
			products[i] = *p
		}
		return nil
	})
	return query.Apply(products, opts), nil
}

// Get returns the product with its review summary and most recent reviews
func (s *ProductService) Get(ctx context.Context, id string) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	err := s.Store.View(func(d *store.Dataset) error {
		p, err := findProduct(d, id)
		if err != nil {
			return err
		}
		reviews := make([]models.Review, 0)
		for _, r := range d.ReviewsOfProduct(id) {
			reviews = append(reviews, *r)
		}
		detail.Product = *p
		detail.ReviewSummary = models.Summarize(reviews)
		detail.RecentReviews = mostRecent(reviews, recentReviewCount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func mostRecent(reviews []models.Review, n int) []models.Review {
	sorted := make([]models.Review, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Create adds a product created by actor. The stock/status invariant is applied.
func (s *ProductService) Create(ctx context.Context, actor Actor, in CreateProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = models.ProductStatusAvailable
	}

	v := &validator{}
	v.required(in.Name, "name")
	v.check(in.Category.Valid(), "category", "invalid category")
	v.required(in.Price, "price")
	v.check(in.Stock != nil, "stock", "stock is required")
	v.check(in.Stock == nil || *in.Stock >= 0, "stock", "stock must not be negative")
	v.check(in.Status.Valid(), "status", "invalid status")
	if err := v.err(); err != nil {
		return nil, err
	}

	var created models.Product
	_ = s.Store.Update(func(d *store.Dataset) error {
		ids := make([]string, len(d.Products))
		for i, p := range d.Products {
			ids[i] = p.ID
		}
		p := &models.Product{
			ID:             fmt.Sprintf("P%03d", nextSeq(ids, "P")),
			Name:           in.Name,
			Category:       in.Category,
			Price:          models.NormalizeAmount(in.Price),
			Stock:          *in.Stock,
			Status:         in.Status,
			Image:          strings.TrimSpace(in.Image),
			CreatedAt:      s.today(),
			CreatedBy:      actor.ID,
			CreatedByName:  actor.Name,
			CreatedByEmail: actor.Email,
		}
		p.NormalizeStatus()
		d.Products = append([]*models.Product{p}, d.Products...)
		created = *p
		return nil
	})

	s.Logger.Info("Product created", "product_id", created.ID, "created_by", actor.ID)
	return &created, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in UpdateProductInput) (*models.Product, error) {
	in.Name = trimmed(in.Name)

	v := &validator{}
	if in.Name != nil {
		v.required(*in.Name, "name")
	}
	if in.Category != nil {
		v.check(in.Category.Valid(), "category", "invalid category")
	}
	if in.Price != nil {
		v.required(*in.Price, "price")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	return s.mutate(id, func(p *models.Product) error {
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Category != nil {
			p.Category = *in.Category
		}
		if in.Price != nil {
			p.Price = models.NormalizeAmount(*in.Price)
		}
		return nil
	})
}

// ChangeStock sets the stock level and re-derives the sale status
func (s *ProductService) ChangeStock(ctx context.Context, id string, stock int) (*models.Product, error) {
	if stock < 0 {
		return nil, errors.NewValidationError("stock must not be negative").WithField("stock", "stock must not be negative")
	}

	var oldStock int
	product, err := s.mutate(id, func(p *models.Product) error {
		oldStock = p.Stock
		p.SetStock(stock)
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg, err := models.NewStockChangedEvent(product, oldStock)
	s.record(ctx, msg, err)
	s.Logger.Info("Product stock changed", "product_id", id, "old_stock", oldStock, "new_stock", stock)
	return product, nil
}

// ChangeStatus sets the sale status. An AVAILABLE product without stock becomes SOLD_OUT.
func (s *ProductService) ChangeStatus(ctx context.Context, id string, status models.ProductStatus) (*models.Product, error) {
	if !status.Valid() {
		return nil, errors.NewValidationError("invalid status").WithField("status", "invalid status")
	}
	return s.mutate(id, func(p *models.Product) error {
		p.Status = status
		if p.Status == models.ProductStatusAvailable && p.Stock == 0 {
			p.Status = models.ProductStatusSoldOut
		}
		return nil
	})
}

// Delete removes a product that was never ordered
func (s *ProductService) Delete(ctx context.Context, id string) error {
	err := s.Store.Update(func(d *store.Dataset) error {
		if _, err := findProduct(d, id); err != nil {
			return err
		}
		if n := d.CountOrdersOfProduct(id); n > 0 {
			return errors.NewBusinessError(errors.CodeHasRelatedData,
				fmt.Sprintf("product has %d orders and cannot be deleted", n))
		}
		if n := len(d.ReviewsOfProduct(id)); n > 0 {
			return errors.NewBusinessError(errors.CodeHasRelatedData,
				fmt.Sprintf("product has %d reviews and cannot be deleted", n))
		}
		return d.RemoveProduct(id)
	})
	if err != nil {
		return err
	}

	s.emit(ctx, models.AggregateProduct, id, models.EventProductDeleted, map[string]interface{}{"product_id": id})
	s.Logger.Info("Product deleted", "product_id", id)
	return nil
}

func (s *ProductService) mutate(id string, fn func(p *models.Product) error) (*models.Product, error) {
	var updated models.Product
	err := s.Store.Update(func(d *store.Dataset) error {
		p, err := findProduct(d, id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
