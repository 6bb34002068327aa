package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Order is created exactly once per verified payment, keyed by the
// gateway-issued reference. The customer fields are a snapshot taken at
// checkout time and stay untouched by later profile edits.
type Order struct {
	ID          string
	UserID      string
	Reference   string
	TotalAmount decimal.Decimal

	Name    string
	Email   string
	Phone   string
	Address string

	Status    Status
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots one cart line at settlement time; UnitPrice is
// independent of the drug's current catalog price.
type OrderItem struct {
	ID        string
	OrderID   string
	DrugID    string
	DrugName  string
	Quantity  int
	UnitPrice decimal.Decimal
}
