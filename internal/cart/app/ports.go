package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/seyifunmi/clinicshop/internal/cart/domain"
)

// Store persists the cart in per-session state. Load returns an empty cart
// when the session has none yet.
type Store interface {
	Load(ctx context.Context, sessionID string) (domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart domain.Cart) error
}

// Drug is the cart's view of a catalog drug.
type Drug struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int
}

// DrugReader resolves drugs from the catalog. ListByIDs must resolve the
// whole batch in a single lookup and omit ids that no longer exist.
type DrugReader interface {
	Get(ctx context.Context, id string) (Drug, error)
	ListByIDs(ctx context.Context, ids []string) ([]Drug, error)
}
