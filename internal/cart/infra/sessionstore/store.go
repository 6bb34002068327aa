package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/seyifunmi/clinicshop/internal/cart/domain"
	"github.com/seyifunmi/clinicshop/internal/session"
)

const cartField = "cart"

// Store keeps the cart as a JSON blob inside the session hash. Carts are
// ephemeral and never touch Postgres.
type Store struct {
	sessions session.Store
}

func New(sessions session.Store) *Store {
	return &Store{sessions: sessions}
}

func (s *Store) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	raw, ok, err := s.sessions.Get(ctx, sessionID, cartField)
	if err != nil {
		return domain.Cart{}, err
	}
	if !ok {
		return domain.New(), nil
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// A corrupt blob should not lock the user out of shopping.
		return domain.New(), nil
	}
	if cart.Lines == nil {
		cart.Lines = make(map[string]domain.Line)
	}
	return cart, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return s.sessions.Set(ctx, sessionID, cartField, string(raw))
}
