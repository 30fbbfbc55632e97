package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/store"
)

const recentOrderCount = 10

type DashboardSummary struct {
	TotalUsers       int    `json:"totalUsers"`
	ActiveUsers      int    `json:"activeUsers"`
	TotalCustomers   int    `json:"totalCustomers"`
	ActiveCustomers  int    `json:"activeCustomers"`
	TotalProducts    int    `json:"totalProducts"`
	LowStockProducts int    `json:"lowStockProducts"`
	TotalOrders      int    `json:"totalOrders"`
	TodayOrders      int    `json:"todayOrders"`
	TotalReviews     int    `json:"totalReviews"`
	AverageRating    string `json:"averageRating"`
}

type DashboardWidgets struct {
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TodayRevenue       decimal.Decimal `json:"todayRevenue"`
	PreparingOrders    int             `json:"preparingOrders"`
	ShippingOrders     int             `json:"shippingOrders"`
	CompletedOrders    int             `json:"completedOrders"`
	LowStockProducts   int             `json:"lowStockProducts"`
	OutOfStockProducts int             `json:"outOfStockProducts"`
}

type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type StatusCount struct {
	Status models.CustomerStatus `json:"status"`
	Count  int                   `json:"count"`
}

type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
}

type DashboardCharts struct {
	ReviewRating    []RatingCount   `json:"reviewRating"`
	CustomerStatus  []StatusCount   `json:"customerStatus"`
	ProductCategory []CategoryCount `json:"productCategory"`
}

// DashboardStats is recomputed from the live collections on every request
type DashboardStats struct {
	Summary      DashboardSummary `json:"summary"`
	Widgets      DashboardWidgets `json:"widgets"`
	Charts       DashboardCharts  `json:"charts"`
	RecentOrders []models.Order   `json:"recentOrders"`
}

type DashboardService struct {
	Dependencies
}

func NewDashboardService(deps Dependencies) *DashboardService {
	return &DashboardService{Dependencies: deps}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	today := s.today()
	stats := &DashboardStats{}

	_ = s.Store.View(func(d *store.Dataset) error {
		sum := &stats.Summary
		w := &stats.Widgets

		sum.TotalUsers = len(d.Users)
		for _, u := range d.Users {
			if u.Status == models.UserStatusActive {
				sum.ActiveUsers++
			}
		}

		sum.TotalCustomers = len(d.Customers)
		byStatus := make(map[models.CustomerStatus]int)
		for _, c := range d.Customers {
			byStatus[c.Status]++
		}
		sum.ActiveCustomers = byStatus[models.CustomerStatusActive]

		sum.TotalProducts = len(d.Products)
		var categories []CategoryCount
		index := make(map[models.Category]int)
		for _, p := range d.Products {
			if p.LowStock() {
				sum.LowStockProducts++
			}
			if p.OutOfStock() {
				w.OutOfStockProducts++
			}
			i, ok := index[p.Category]
			if !ok {
				i = len(categories)
				index[p.Category] = i
				categories = append(categories, CategoryCount{Category: p.Category})
			}
			categories[i].Count++
		}
		w.LowStockProducts = sum.LowStockProducts

		for _, o := range d.Orders {
			switch o.Status {
			case models.OrderStatusPreparing:
				w.PreparingOrders++
			case models.OrderStatusShipping:
				w.ShippingOrders++
			case models.OrderStatusDelivered:
				w.CompletedOrders++
			}
			if !o.Active() {
				continue
			}
			amount := models.ParseAmount(o.Amount)
			sum.TotalOrders++
			w.TotalRevenue = w.TotalRevenue.Add(amount)
			if o.Date == today {
				sum.TodayOrders++
				w.TodayRevenue = w.TodayRevenue.Add(amount)
			}
		}

		ratings := make([]RatingCount, models.MaxRating)
		for i := range ratings {
			ratings[i].Rating = i + 1
		}
		total := 0
		for _, r := range d.Reviews {
			total += r.Rating
			if r.Rating >= models.MinRating && r.Rating <= models.MaxRating {
				ratings[r.Rating-1].Count++
			}
		}
		sum.TotalReviews = len(d.Reviews)
		sum.AverageRating = models.AverageRating(total, len(d.Reviews)).StringFixed(1)

		statuses := make([]StatusCount, 0, len(models.CustomerStatuses))
		for _, st := range models.CustomerStatuses {
			if n := byStatus[st]; n > 0 {
				statuses = append(statuses, StatusCount{Status: st, Count: n})
			}
		}
		sort.SliceStable(categories, func(i, j int) bool { return categories[i].Count > categories[j].Count })
		if categories == nil {
			categories = []CategoryCount{}
		}

		stats.Charts = DashboardCharts{
			ReviewRating:    ratings,
			CustomerStatus:  statuses,
			ProductCategory: categories,
		}

		n := len(d.Orders)
		if n > recentOrderCount {
			n = recentOrderCount
		}
		stats.RecentOrders = make([]models.Order, n)
		for i := 0; i < n; i++ {
			stats.RecentOrders[i] = *d.Orders[i]
		}
		return nil
	})

	return stats, nil
}
