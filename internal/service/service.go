package service

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/repository"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
	"github.com/vaidashi/backoffice-api/pkg/logger"
)

// Actor identifies the administrator performing an operation
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  models.Role
}

// Dependencies are shared by every service
type Dependencies struct {
	Store  *store.Store
	Outbox repository.OutboxRepository
	Logger logger.Logger
	// Clock defines "now" and therefore "today"; defaults to UTC wall time
	Clock func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return models.GetCurrentTime()
}

func (d Dependencies) today() string {
	return models.FormatDate(d.now())
}

// record appends a domain event to the outbox. The mutation it describes has
// already been applied, so failures are logged and never surfaced to the caller.
func (d Dependencies) record(ctx context.Context, msg *models.OutboxMessage, err error) {
	if err != nil {
		d.Logger.Error("Failed to build outbox message", "error", err)
		return
	}
	if msg == nil || d.Outbox == nil {
		return
	}
	if err := d.Outbox.Create(ctx, msg); err != nil {
		d.Logger.Error("Failed to record outbox message",
			"error", err,
			"event_type", msg.EventType,
			"aggregate_id", msg.AggregateID)
		return
	}
	d.Logger.Debug("Recorded outbox message", "event_type", msg.EventType, "outbox_id", msg.ID)
}

// emit records an event built from data
func (d Dependencies) emit(ctx context.Context, aggregateType, aggregateID, eventType string, data interface{}) {
	msg, err := models.NewEvent(aggregateType, aggregateID, eventType, data)
	d.record(ctx, msg, err)
}

func notFound(entity string) *errors.AppError {
	return errors.NewNotFoundError(fmt.Sprintf("%s not found", entity))
}

func findUser(d *store.Dataset, id string) (*models.User, error) {
	u, err := d.FindUser(id)
	if err != nil {
		return nil, notFound("user")
	}
	return u, nil
}

func findCustomer(d *store.Dataset, id string) (*models.Customer, error) {
	c, err := d.FindCustomer(id)
	if err != nil {
		return nil, notFound("customer")
	}
	return c, nil
}

func findProduct(d *store.Dataset, id string) (*models.Product, error) {
	p, err := d.FindProduct(id)
	if err != nil {
		return nil, notFound("product")
	}
	return p, nil
}

func findOrder(d *store.Dataset, id string) (*models.Order, error) {
	o, err := d.FindOrder(id)
	if err != nil {
		return nil, notFound("order")
	}
	return o, nil
}

func findReview(d *store.Dataset, id string) (*models.Review, error) {
	r, err := d.FindReview(id)
	if err != nil {
		return nil, notFound("review")
	}
	return r, nil
}

// validator collects field errors into a single VALIDATION_ERROR
type validator struct {
	fields []errors.FieldError
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		v.fields = append(v.fields, errors.FieldError{Field: field, Message: message})
	}
}

func (v *validator) required(value, field string) {
	v.check(strings.TrimSpace(value) != "", field, field+" is required")
}

func (v *validator) email(value, field string) {
	if strings.TrimSpace(value) == "" {
		v.required(value, field)
		return
	}
	_, err := mail.ParseAddress(value)
	v.check(err == nil && strings.Contains(value, "@"), field, "invalid email format")
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	e := errors.NewValidationError("validation failed")
	e.Fields = v.fields
	return e
}

// nextSeq returns one more than the largest numeric suffix of ids after prefix
func nextSeq(ids []string, prefix string) int {
	max := 0
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(id, prefix)); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
