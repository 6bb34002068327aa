package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DrugCategory struct {
	ID   string
	Name string
}

type Drug struct {
	ID         string
	Name       string
	CategoryID string
	Category   string
	Price      decimal.Decimal
	Stock      int
	ImagePath  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InStock reports whether the requested quantity is currently available.
func (d Drug) InStock(quantity int) bool {
	return quantity > 0 && d.Stock >= quantity
}
