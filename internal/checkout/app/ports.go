package app

import (
	"context"

	cartapp "github.com/seyifunmi/clinicshop/internal/cart/app"
	cartdomain "github.com/seyifunmi/clinicshop/internal/cart/domain"
	"github.com/seyifunmi/clinicshop/internal/checkout/domain"
	orderdomain "github.com/seyifunmi/clinicshop/internal/order/domain"
)

// Carts is what settlement needs from the cart aggregator.
type Carts interface {
	Items(ctx context.Context, sessionID string) ([]cartapp.Item, error)
	Reconcile(ctx context.Context, sessionID string) (cartdomain.Cart, []string, error)
	Clear(ctx context.Context, sessionID string) error
}

// Orders is the durable side of settlement.
type Orders interface {
	Settle(ctx context.Context, order orderdomain.Order) (orderdomain.Order, error)
	GetByReference(ctx context.Context, reference string) (orderdomain.Order, error)
}

// CustomerStore holds the transient checkout snapshot in session state.
type CustomerStore interface {
	Get(ctx context.Context, sessionID string) (domain.CustomerInfo, bool, error)
	Save(ctx context.Context, sessionID string, info domain.CustomerInfo) error
	Delete(ctx context.Context, sessionID string) error
}

// VerifyResult is the gateway's answer for one reference.
type VerifyResult struct {
	Status     string
	AmountKobo int64
	PayerEmail string
}

// PaymentVerifier checks a gateway reference over an authenticated channel.
// Implementations must return ErrGatewayUnavailable (wrapped) on timeouts
// and connectivity failures, never a success-shaped result.
type PaymentVerifier interface {
	Verify(ctx context.Context, reference string) (VerifyResult, error)
}
