// Package seed generates the startup dataset: fixed admins, customers and
// products plus randomized but internally consistent orders and reviews.
package seed

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/store"
)

const (
	orderCount       = 100
	deliveredShare   = 0.75
	shippingShare    = 0.15
	csOrderChance    = 0.3
	forcedTodayCount = 3
	reviewDelayDays  = 3
)

// StartDate is the earliest generated creation date
var StartDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Options configures generation
type Options struct {
	Seed int64
	Now  time.Time
	// HashPassword turns a plain seed password into its stored form
	HashPassword func(plain string) (string, error)
}

type generator struct {
	rnd   *rand.Rand
	now   time.Time
	today string
}

// Generate builds a fresh dataset. The same Seed and Now yield the same data.
func Generate(opts Options) (*store.Dataset, error) {
	now := opts.Now
	if now.IsZero() {
		now = models.GetCurrentTime()
	}
	g := &generator{
		rnd:   rand.New(rand.NewSource(opts.Seed)),
		now:   now.UTC(),
		today: models.FormatDate(now.UTC()),
	}

	users, err := g.users(opts.HashPassword)
	if err != nil {
		return nil, err
	}

	d := &store.Dataset{
		Users:     users,
		Customers: g.customers(),
		Products:  g.products(),
	}
	d.Orders = g.orders(d)

	for _, p := range d.Products {
		p.NormalizeStatus()
	}
	d.RecalculateAllCustomers()
	d.Reviews = g.reviews(d.Orders)

	return d, nil
}

func (g *generator) randomDate(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(g.rnd.Int63n(int64(span))))
}

func (g *generator) users(hash func(string) (string, error)) ([]*models.User, error) {
	hashed := make(map[string]string)
	out := make([]*models.User, 0, len(admins))

	for _, row := range admins {
		password := row.password
		if hash != nil {
			h, ok := hashed[password]
			if !ok {
				var err error
				if h, err = hash(password); err != nil {
					return nil, fmt.Errorf("hash seed password: %w", err)
				}
				hashed[password] = h
			}
			password = h
		}

		createdAt := g.randomDate(StartDate, g.now)
		u := &models.User{
			ID:              row.id,
			Name:            row.name,
			Email:           row.email,
			Password:        password,
			Phone:           row.phone,
			Role:            row.role,
			Status:          row.status,
			CreatedAt:       models.FormatDate(createdAt),
			RequestMessage:  row.requestMessage,
			RejectionReason: row.rejectionReason,
		}

		switch row.status {
		case models.UserStatusPending:
		case models.UserStatusRejected:
			rejectedAt := createdAt.AddDate(0, 0, g.rnd.Intn(3)+1)
			if rejectedAt.Before(g.now) {
				u.RejectedAt = models.FormatDate(rejectedAt)
			}
		default:
			approvedAt := createdAt.AddDate(0, 0, g.rnd.Intn(7)+1)
			if approvedAt.Before(g.now) {
				u.ApprovedAt = models.FormatDate(approvedAt)
			} else {
				u.ApprovedAt = u.CreatedAt
			}
		}

		out = append(out, u)
	}
	return out, nil
}

func (g *generator) customers() []*models.Customer {
	out := make([]*models.Customer, 0, len(customers))
	for _, row := range customers {
		out = append(out, &models.Customer{
			ID:         row.id,
			Name:       row.name,
			Email:      row.email,
			Phone:      row.phone,
			Status:     row.status,
			CreatedAt:  models.FormatDate(g.randomDate(StartDate, g.now)),
			TotalSpent: models.FormatAmount(decimal.Zero),
		})
	}
	return out
}

func (g *generator) products() []*models.Product {
	out := make([]*models.Product, 0, len(products))
	for i, row := range products {
		creator := admins[0]
		if i%2 == 1 {
			creator = admins[1]
		}
		out = append(out, &models.Product{
			ID:             row.id,
			Name:           row.name,
			Category:       row.category,
			Price:          row.price,
			Stock:          row.stock,
			Status:         models.ProductStatusAvailable,
			CreatedAt:      models.FormatDate(g.randomDate(StartDate, g.now)),
			CreatedBy:      creator.id,
			CreatedByName:  creator.name,
			CreatedByEmail: creator.email,
		})
	}
	return out
}

func (g *generator) orders(d *store.Dataset) []*models.Order {
	buyers := make([]*models.Customer, 0, len(d.Customers))
	for _, c := range d.Customers {
		if c.ID != NoOrderCustomerID {
			buyers = append(buyers, c)
		}
	}

	var csAdmin *models.User
	for _, u := range d.Users {
		if u.Role == models.RoleCSAdmin {
			csAdmin = u
			break
		}
	}

	delivered := int(orderCount * deliveredShare)
	shipping := int(orderCount * shippingShare)
	preparing := orderCount - delivered - shipping

	shippingStart := g.now.AddDate(0, 0, -10)
	preparingStart := g.now.AddDate(0, 0, -3)

	orders := make([]*models.Order, 0, orderCount)
	newOrder := func(status models.OrderStatus, start, end time.Time) *models.Order {
		c := buyers[g.rnd.Intn(len(buyers))]
		p := d.Products[g.rnd.Intn(len(d.Products))]
		qty := g.rnd.Intn(3) + 1
		return &models.Order{
			CustomerID:    c.ID,
			Customer:      c.Name,
			CustomerEmail: c.Email,
			ProductID:     p.ID,
			Product:       p.Name,
			Quantity:      qty,
			Amount:        models.FormatAmount(models.LineAmount(p.Price, qty)),
			Date:          models.FormatDate(g.randomDate(start, end)),
			Status:        status,
		}
	}

	for i := 0; i < delivered; i++ {
		orders = append(orders, newOrder(models.OrderStatusDelivered, StartDate, shippingStart))
	}
	for i := 0; i < shipping; i++ {
		orders = append(orders, newOrder(models.OrderStatusShipping, shippingStart, preparingStart))
	}
	for i := 0; i < preparing; i++ {
		o := newOrder(models.OrderStatusPreparing, preparingStart, g.now)
		if csAdmin != nil && g.rnd.Float64() < csOrderChance {
			o.CreatedByAdminID = csAdmin.ID
			o.CreatedByAdminName = csAdmin.Name
			o.CreatedByAdminEmail = csAdmin.Email
			o.CreatedByAdminRole = csAdmin.Role
		}
		orders = append(orders, o)
	}

	g.rnd.Shuffle(len(orders), func(i, j int) { orders[i], orders[j] = orders[j], orders[i] })

	perDay := make(map[string]int)
	numberOf := func(o *models.Order) {
		perDay[o.Date]++
		day, _ := time.Parse(models.DateLayout, o.Date)
		o.OrderNo = models.OrderNo(day, perDay[o.Date])
	}

	for i, o := range orders {
		o.ID = models.OrderID(i + 1)
		numberOf(o)
	}

	if perDay[g.today] == 0 {
		for i := 0; i < forcedTodayCount && i < len(orders); i++ {
			orders[i].Date = g.today
			orders[i].Status = models.OrderStatusPreparing
			numberOf(orders[i])
		}
	}

	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Date > orders[j].Date })
	return orders
}

// rating draws from a J-shaped distribution: 5:50%, 4:30%, 3:10%, 2:5%, 1:5%
func (g *generator) rating() int {
	r := g.rnd.Float64()
	switch {
	case r < 0.5:
		return 5
	case r < 0.8:
		return 4
	case r < 0.9:
		return 3
	case r < 0.95:
		return 2
	default:
		return 1
	}
}

func (g *generator) reviews(orders []*models.Order) []*models.Review {
	var out []*models.Review
	for _, o := range orders {
		if o.Status != models.OrderStatusDelivered {
			continue
		}
		rating := g.rating()
		pool := reviewComments[rating]

		date, _ := time.Parse(models.DateLayout, o.Date)
		date = date.AddDate(0, 0, reviewDelayDays)
		if date.After(g.now) {
			date = g.now
		}

		out = append(out, &models.Review{
			ID:            models.ReviewID(len(out) + 1),
			OrderID:       o.ID,
			ProductID:     o.ProductID,
			CustomerID:    o.CustomerID,
			Customer:      o.Customer,
			CustomerEmail: o.CustomerEmail,
			Product:       o.Product,
			Rating:        rating,
			Comment:       pool[g.rnd.Intn(len(pool))],
			Date:          models.FormatDate(date),
		})
	}
	return out
}
