package app

import (
	"context"

	"github.com/seyifunmi/clinicshop/internal/order/domain"
)

// OrderRepo persists orders. SettleTx must apply the stock decrements and
// the order/item inserts as one atomic unit: when any line's stock no
// longer covers its quantity the whole transaction rolls back and
// ErrInsufficientStock is returned; a reference collision rolls back with
// ErrDuplicateReference.
type OrderRepo interface {
	SettleTx(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByReference(ctx context.Context, reference string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
