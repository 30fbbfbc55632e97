package models

// CustomerStatus is the state of a shopper account
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusInactive  CustomerStatus = "INACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
)

// CustomerStatuses lists every valid customer status in display order
var CustomerStatuses = []CustomerStatus{CustomerStatusActive, CustomerStatusInactive, CustomerStatusSuspended}

// Valid reports whether s is a known status
func (s CustomerStatus) Valid() bool {
	for _, known := range CustomerStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Customer is a shopper. TotalOrders and TotalSpent are derived from non-cancelled orders.
type Customer struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Status      CustomerStatus `json:"status"`
	CreatedAt   string         `json:"createdAt"`
	TotalOrders int            `json:"totalOrders"`
	TotalSpent  string         `json:"totalSpent"`
}

func (c Customer) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "status":
		return string(c.Status), true
	case "createdAt":
		return c.CreatedAt, true
	case "totalOrders":
		return c.TotalOrders, true
	case "totalSpent":
		return c.TotalSpent, true
	}
	return nil, false
}
