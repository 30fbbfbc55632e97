package models

// Category groups products for browsing and reporting
type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryFashion     Category = "FASHION"
	CategoryFood        Category = "FOOD"
	CategoryLiving      Category = "LIVING"
	CategorySports      Category = "SPORTS"
	CategoryBeauty      Category = "BEAUTY"
	CategoryBooks       Category = "BOOKS"
	CategoryToys        Category = "TOYS"
)

// Categories lists every valid category
var Categories = []Category{
	CategoryElectronics, CategoryFashion, CategoryFood, CategoryLiving,
	CategorySports, CategoryBeauty, CategoryBooks, CategoryToys,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ProductStatus is the sale state of a product
type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "AVAILABLE"
	ProductStatusSoldOut      ProductStatus = "SOLD_OUT"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

// Valid reports whether s is a known status
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusSoldOut, ProductStatusDiscontinued:
		return true
	}
	return false
}

// LowStockThreshold is the inclusive upper bound of a "low stock" product
const LowStockThreshold = 5

// Product is an item for sale
type Product struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Category       Category      `json:"category"`
	Price          string        `json:"price"`
	Stock          int           `json:"stock"`
	Status         ProductStatus `json:"status"`
	Image          string        `json:"image,omitempty"`
	CreatedAt      string        `json:"createdAt"`
	CreatedBy      string        `json:"createdBy"`
	CreatedByName  string        `json:"createdByName"`
	CreatedByEmail string        `json:"createdByEmail"`
}

// SetStock stores a new stock level and re-derives the sale status.
// A discontinued product keeps its status regardless of stock.
func (p *Product) SetStock(stock int) {
	p.Stock = stock
	p.NormalizeStatus()
}

// NormalizeStatus applies the stock/status invariant:
// empty stock means SOLD_OUT, restocked SOLD_OUT means AVAILABLE.
func (p *Product) NormalizeStatus() {
	if p.Status == ProductStatusDiscontinued {
		return
	}
	if p.Stock == 0 {
		p.Status = ProductStatusSoldOut
	} else if p.Status == ProductStatusSoldOut {
		p.Status = ProductStatusAvailable
	}
}

// LowStock reports whether the product is running out but not yet empty
func (p Product) LowStock() bool {
	return p.Stock > 0 && p.Stock <= LowStockThreshold
}

// OutOfStock reports whether the product cannot currently be ordered for lack of stock
func (p Product) OutOfStock() bool {
	return p.Status == ProductStatusSoldOut || p.Stock == 0
}

func (p Product) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "name":
		return p.Name, true
	case "category":
		return string(p.Category), true
	case "price":
		return p.Price, true
	case "stock":
		return p.Stock, true
	case "status":
		return string(p.Status), true
	case "createdAt":
		return p.CreatedAt, true
	case "createdBy":
		return p.CreatedBy, true
	case "createdByName":
		return p.CreatedByName, true
	}
	return nil, false
}

// ProductDetail is a product with its review statistics
type ProductDetail struct {
	Product
	ReviewSummary ReviewSummary `json:"reviewSummary"`
	RecentReviews []Review      `json:"recentReviews"`
}
