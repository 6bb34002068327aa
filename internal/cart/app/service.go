package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/seyifunmi/clinicshop/internal/cart/domain"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrDrugNotFound    = errors.New("drug not found")
	ErrStockExceeded   = errors.New("not enough stock")
)

// Item is one resolved cart line as shown to the user.
type Item struct {
	Drug      Drug
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Service struct {
	store Store
	drugs DrugReader
}

func NewService(store Store, drugs DrugReader) *Service {
	return &Service{
		store: store,
		drugs: drugs,
	}
}

// Add puts quantity units of a drug into the session's cart. The unit price
// is snapshotted on first insert. Adds that would push the line beyond the
// drug's current stock are refused; the settlement transaction remains the
// authority on stock either way.
func (s *Service) Add(ctx context.Context, sessionID, drugID string, quantity int, override bool) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, ErrInvalidQuantity
	}

	drug, err := s.drugs.Get(ctx, drugID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}

	want := quantity
	if !override {
		want += cart.Quantity(drugID)
	}
	if want > drug.Stock {
		return domain.Cart{}, fmt.Errorf("%w: %s has %d left", ErrStockExceeded, drug.Name, drug.Stock)
	}

	cart.Add(drugID, drug.Price, quantity, override)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// Remove deletes the line if present; absent lines are a no-op.
func (s *Service) Remove(ctx context.Context, sessionID, drugID string) error {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	cart.Remove(drugID)
	return s.store.Save(ctx, sessionID, cart)
}

// Clear discards the session's cart. Idempotent.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	cart.Clear()
	return s.store.Save(ctx, sessionID, cart)
}

func (s *Service) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// Items resolves the cart's lines against the catalog in one batched
// lookup. Lines whose drug has vanished are skipped, not removed; Reconcile
// owns cart mutation.
func (s *Service) Items(ctx context.Context, sessionID string) ([]Item, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, nil
	}

	drugs, err := s.drugs.ListByIDs(ctx, cart.DrugIDs())
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Drug, len(drugs))
	for _, d := range drugs {
		byID[d.ID] = d
	}

	items := make([]Item, 0, len(cart.Lines))
	for id, line := range cart.Lines {
		drug, ok := byID[id]
		if !ok {
			continue
		}
		items = append(items, Item{
			Drug:      drug,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return items, nil
}

// Reconcile drops every line whose quantity exceeds the drug's current
// stock (vanished drugs count as zero stock) so stale carts self-heal.
// It returns the surviving cart and the names of dropped drugs so the
// caller can inform the user.
func (s *Service) Reconcile(ctx context.Context, sessionID string) (domain.Cart, []string, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, nil, err
	}
	if cart.IsEmpty() {
		return cart, nil, nil
	}

	drugs, err := s.drugs.ListByIDs(ctx, cart.DrugIDs())
	if err != nil {
		return domain.Cart{}, nil, err
	}

	byID := make(map[string]Drug, len(drugs))
	for _, d := range drugs {
		byID[d.ID] = d
	}

	var dropped []string
	for id, line := range cart.Lines {
		drug, ok := byID[id]
		if !ok {
			cart.Remove(id)
			dropped = append(dropped, id)
			continue
		}
		if line.Quantity > drug.Stock {
			cart.Remove(id)
			dropped = append(dropped, drug.Name)
		}
	}

	if len(dropped) > 0 {
		if err := s.store.Save(ctx, sessionID, cart); err != nil {
			return domain.Cart{}, nil, err
		}
	}
	return cart, dropped, nil
}
