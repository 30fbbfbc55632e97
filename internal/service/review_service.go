package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

var ReviewSearchFields = []string{"customer", "product", "comment"}

type CreateReviewInput struct {
	OrderID string `json:"orderId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewService manages reviews. Reviews are write-once.
type ReviewService struct {
	Dependencies
}

func NewReviewService(deps Dependencies) *ReviewService {
	return &ReviewService{Dependencies: deps}
}

func (s *ReviewService) List(ctx context.Context, opts query.Options) (query.Page[models.Review], error) {
	var reviews []models.Review
	_ = s.Store.View(func(d *store.Dataset) error {
		reviews = make([]models.Review, len(d.Reviews))
		for i, r := range d.Reviews {
			reviews[i] = *r
		}
		return nil
	})
	return query.Apply(reviews, opts), nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := s.Store.View(func(d *store.Dataset) error {
		r, err := findReview(d, id)
		if err != nil {
			return err
		}
		review = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create reviews a delivered order. Each order is reviewed at most once.
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	v := &validator{}
	v.required(in.OrderID, "orderId")
	v.check(in.Rating >= models.MinRating && in.Rating <= models.MaxRating, "rating",
		fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	if err := v.err(); err != nil {
		return nil, err
	}

	var created models.Review
	err := s.Store.Update(func(d *store.Dataset) error {
		o, err := findOrder(d, in.OrderID)
		if err != nil {
			return err
		}
		if o.Status != models.OrderStatusDelivered {
			return errors.NewBusinessError(errors.CodeInvalidStatusChange, "only delivered orders can be reviewed")
		}
		if _, err := d.FindReviewOfOrder(o.ID); err == nil {
			return errors.NewBusinessError(errors.CodeAlreadyExists, "this order has already been reviewed")
		}

		ids := make([]string, len(d.Reviews))
		for i, r := range d.Reviews {
			ids[i] = r.ID
		}
		r := &models.Review{
			ID:            models.ReviewID(nextSeq(ids, "R")),
			OrderID:       o.ID,
			ProductID:     o.ProductID,
			CustomerID:    o.CustomerID,
			Customer:      o.Customer,
			CustomerEmail: o.CustomerEmail,
			Product:       o.Product,
			Rating:        in.Rating,
			Comment:       strings.TrimSpace(in.Comment),
			Date:          s.today(),
		}
		d.Reviews = append(d.Reviews, r)
		created = *r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Review created", "review_id", created.ID, "order_id", created.OrderID, "rating", created.Rating)
	return &created, nil
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	err := s.Store.Update(func(d *store.Dataset) error {
		if err := d.RemoveReview(id); err != nil {
			return notFound("review")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Logger.Info("Review deleted", "review_id", id)
	return nil
}
