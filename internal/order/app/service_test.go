package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/seyifunmi/clinicshop/internal/order/domain"
)

type fakeRepo struct {
	settled []domain.Order
}

func (f *fakeRepo) SettleTx(ctx context.Context, o domain.Order) (domain.Order, error) {
	f.settled = append(f.settled, o)
	return o, nil
}

func (f *fakeRepo) GetByReference(ctx context.Context, ref string) (domain.Order, error) {
	return domain.Order{}, ErrNotFound
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return nil, nil
}

func validOrder() domain.Order {
	return domain.Order{
		UserID:      "u1",
		Reference:   "ref-1",
		Status:      domain.StatusPaid,
		TotalAmount: decimal.RequireFromString("2500.00"),
		Items: []domain.OrderItem{
			{DrugID: "a", DrugName: "DrugA", Quantity: 2, UnitPrice: decimal.RequireFromString("500.00")},
			{DrugID: "b", DrugName: "DrugB", Quantity: 1, UnitPrice: decimal.RequireFromString("1500.00")},
		},
	}
}

func TestSettleValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("no items -> invalid", func(t *testing.T) {
		svc := NewService(&fakeRepo{})
		o := validOrder()
		o.Items = nil
		if _, err := svc.Settle(ctx, o); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("missing reference -> invalid", func(t *testing.T) {
		svc := NewService(&fakeRepo{})
		o := validOrder()
		o.Reference = ""
		if _, err := svc.Settle(ctx, o); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero quantity -> invalid", func(t *testing.T) {
		svc := NewService(&fakeRepo{})
		o := validOrder()
		o.Items[0].Quantity = 0
		if _, err := svc.Settle(ctx, o); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("total mismatch -> rejected", func(t *testing.T) {
		svc := NewService(&fakeRepo{})
		o := validOrder()
		o.TotalAmount = decimal.RequireFromString("9999.00")
		if _, err := svc.Settle(ctx, o); !errors.Is(err, ErrLineTotalMismatch) {
			t.Fatalf("expected ErrLineTotalMismatch, got %v", err)
		}
	})

	t.Run("consistent order -> settled", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)
		if _, err := svc.Settle(ctx, validOrder()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.settled) != 1 {
			t.Fatalf("expected one settlement, got %d", len(repo.settled))
		}
	})
}

func TestHistoryRequiresUser(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.History(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
