package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's write-once rating of a delivered order
type Review struct {
	ID            string `json:"id"`
	OrderID       string `json:"orderId"`
	ProductID     string `json:"productId"`
	CustomerID    string `json:"customerId"`
	Customer      string `json:"customer"`
	CustomerEmail string `json:"customerEmail"`
	Product       string `json:"product"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
}

func (r Review) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return r.ID, true
	case "orderId":
		return r.OrderID, true
	case "productId":
		return r.ProductID, true
	case "customerId":
		return r.CustomerID, true
	case "customer":
		return r.Customer, true
	case "customerEmail":
		return r.CustomerEmail, true
	case "product":
		return r.Product, true
	case "rating":
		return r.Rating, true
	case "comment":
		return r.Comment, true
	case "date":
		return r.Date, true
	}
	return nil, false
}

// ReviewID renders a review id, e.g. R007
func ReviewID(seq int) string {
	return fmt.Sprintf("R%03d", seq)
}

// ReviewSummary aggregates the ratings of a single product
type ReviewSummary struct {
	AverageRating  float64 `json:"averageRating"`
	TotalReviews   int     `json:"totalReviews"`
	FiveStarCount  int     `json:"fiveStarCount"`
	FourStarCount  int     `json:"fourStarCount"`
	ThreeStarCount int     `json:"threeStarCount"`
	TwoStarCount   int     `json:"twoStarCount"`
	OneStarCount   int     `json:"oneStarCount"`
}

// Summarize builds the rating summary of reviews. The average is rounded to one decimal.
func Summarize(reviews []Review) ReviewSummary {
	var s ReviewSummary
	total := 0
	for _, r := range reviews {
		total += r.Rating
		switch r.Rating {
		case 5:
			s.FiveStarCount++
		case 4:
			s.FourStarCount++
		case 3:
			s.ThreeStarCount++
		case 2:
			s.TwoStarCount++
		case 1:
			s.OneStarCount++
		}
	}
	s.TotalReviews = len(reviews)
	s.AverageRating, _ = AverageRating(total, s.TotalReviews).Float64()
	return s
}

// AverageRating divides the rating sum by the count, rounded half up to one decimal.
// An empty set averages to zero.
func AverageRating(sum, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(sum)).DivRound(decimal.NewFromInt(int64(count)), 1)
}
