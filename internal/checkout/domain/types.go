package domain

import "github.com/shopspring/decimal"

// CustomerInfo is the delivery snapshot captured on the checkout form and
// copied verbatim onto the order at settlement.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Receipt is the outcome of a settlement attempt. AlreadySettled marks a
// retried reference that was swallowed as an idempotent no-op.
type Receipt struct {
	OrderID        string
	Reference      string
	Total          decimal.Decimal
	AlreadySettled bool
}
