package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	cartapp "github.com/seyifunmi/clinicshop/internal/cart/app"
	cartdomain "github.com/seyifunmi/clinicshop/internal/cart/domain"
	"github.com/seyifunmi/clinicshop/internal/checkout/domain"
	orderapp "github.com/seyifunmi/clinicshop/internal/order/app"
	orderdomain "github.com/seyifunmi/clinicshop/internal/order/domain"
)

type fakeCarts struct {
	items      []cartapp.Item
	reconciled int
	cleared    int
}

func (f *fakeCarts) Items(ctx context.Context, sessionID string) ([]cartapp.Item, error) {
	return f.items, nil
}

func (f *fakeCarts) Reconcile(ctx context.Context, sessionID string) (cartdomain.Cart, []string, error) {
	f.reconciled++
	return cartdomain.New(), nil, nil
}

func (f *fakeCarts) Clear(ctx context.Context, sessionID string) error {
	f.cleared++
	f.items = nil
	return nil
}

type fakeOrders struct {
	settleErr error
	settled   []orderdomain.Order
	existing  *orderdomain.Order
}

func (f *fakeOrders) Settle(ctx context.Context, o orderdomain.Order) (orderdomain.Order, error) {
	if f.settleErr != nil {
		return orderdomain.Order{}, f.settleErr
	}
	o.ID = "order-1"
	f.settled = append(f.settled, o)
	return o, nil
}

func (f *fakeOrders) GetByReference(ctx context.Context, ref string) (orderdomain.Order, error) {
	if f.existing != nil && f.existing.Reference == ref {
		return *f.existing, nil
	}
	return orderdomain.Order{}, orderapp.ErrNotFound
}

type fakeCustomers struct {
	info    *domain.CustomerInfo
	deleted int
}

func (f *fakeCustomers) Get(ctx context.Context, sessionID string) (domain.CustomerInfo, bool, error) {
	if f.info == nil {
		return domain.CustomerInfo{}, false, nil
	}
	return *f.info, true, nil
}

func (f *fakeCustomers) Save(ctx context.Context, sessionID string, info domain.CustomerInfo) error {
	f.info = &info
	return nil
}

func (f *fakeCustomers) Delete(ctx context.Context, sessionID string) error {
	f.deleted++
	f.info = nil
	return nil
}

type fakeVerifier struct {
	result VerifyResult
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(ctx context.Context, reference string) (VerifyResult, error) {
	f.calls++
	if f.err != nil {
		return VerifyResult{}, f.err
	}
	return f.result, nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func twoLineCart() []cartapp.Item {
	return []cartapp.Item{
		{
			Drug:      cartapp.Drug{ID: "a", Name: "DrugA", Price: price("500.00"), Stock: 10},
			Quantity:  2,
			UnitPrice: price("500.00"),
			LineTotal: price("1000.00"),
		},
		{
			Drug:      cartapp.Drug{ID: "b", Name: "DrugB", Price: price("1500.00"), Stock: 5},
			Quantity:  1,
			UnitPrice: price("1500.00"),
			LineTotal: price("1500.00"),
		},
	}
}

func customer() *domain.CustomerInfo {
	return &domain.CustomerInfo{
		Name:    "Ada Obi",
		Email:   "ada@example.com",
		Phone:   "09039871169",
		Address: "12 Broad Street, Lagos",
	}
}

func successVerifier() *fakeVerifier {
	return &fakeVerifier{result: VerifyResult{Status: "success", AmountKobo: 250000, PayerEmail: "ada@example.com"}}
}

func TestSettlePreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart -> ErrEmptyCart", func(t *testing.T) {
		verifier := successVerifier()
		svc := NewService(&fakeCarts{}, &fakeOrders{}, &fakeCustomers{info: customer()}, verifier, false)

		_, err := svc.Settle(ctx, "s1", "u1", "ref-1")
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
		if verifier.calls != 0 {
			t.Fatal("gateway must not be called for an empty cart")
		}
	})

	t.Run("missing customer info -> ErrMissingCustomerInfo", func(t *testing.T) {
		svc := NewService(&fakeCarts{items: twoLineCart()}, &fakeOrders{}, &fakeCustomers{}, successVerifier(), false)

		_, err := svc.Settle(ctx, "s1", "u1", "ref-1")
		if !errors.Is(err, ErrMissingCustomerInfo) {
			t.Fatalf("expected ErrMissingCustomerInfo, got %v", err)
		}
	})

	t.Run("blank reference -> invalid", func(t *testing.T) {
		svc := NewService(&fakeCarts{items: twoLineCart()}, &fakeOrders{}, &fakeCustomers{info: customer()}, successVerifier(), false)

		_, err := svc.Settle(ctx, "s1", "u1", "   ")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSettleGatewayOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("gateway unreachable -> no durable mutation", func(t *testing.T) {
		orders := &fakeOrders{}
		carts := &fakeCarts{items: twoLineCart()}
		verifier := &fakeVerifier{err: ErrGatewayUnavailable}
		svc := NewService(carts, orders, &fakeCustomers{info: customer()}, verifier, false)

		_, err := svc.Settle(ctx, "s1", "u1", "ref-1")
		if !errors.Is(err, ErrGatewayUnavailable) {
			t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
		}
		if len(orders.settled) != 0 || carts.cleared != 0 {
			t.Fatal("failed verification must not touch durable or session state")
		}
	})

	t.Run("status failed -> ErrPaymentFailed", func(t *testing.T) {
		verifier := &fakeVerifier{result: VerifyResult{Status: "failed"}}
		svc := NewService(&fakeCarts{items: twoLineCart()}, &fakeOrders{}, &fakeCustomers{info: customer()}, verifier, false)

		_, err := svc.Settle(ctx, "s1", "u1", "ref-1")
		if !errors.Is(err, ErrPaymentFailed) {
			t.Fatalf("expected ErrPaymentFailed, got %v", err)
		}
	})

	t.Run("payer email mismatch -> rejected", func(t *testing.T) {
		verifier := &fakeVerifier{result: VerifyResult{Status: "success", PayerEmail: "attacker@example.com"}}
		orders := &fakeOrders{}
		svc := NewService(&fakeCarts{items: twoLineCart()}, orders, &fakeCustomers{info: customer()}, verifier, false)

		_, err := svc.Settle(ctx, "s1", "u1", "ref-1")
		if !errors.Is(err, ErrEmailMismatch) {
			t.Fatalf("expected ErrEmailMismatch, got %v", err)
		}
		if len(orders.settled) != 0 {
			t.Fatal("mismatched email must not settle")
		}
	})

	t.Run("payer email mismatch tolerated when relaxed", func(t *testing.T) {
		verifier := &fakeVerifier{result: VerifyResult{Status: "success", PayerEmail: "dummy@test"}}
		orders := &fakeOrders{}
		svc := NewService(&fakeCarts{items: twoLineCart()}, orders, &fakeCustomers{info: customer()}, verifier, true)

		if _, err := svc.Settle(ctx, "s1", "u1", "ref-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders.settled) != 1 {
			t.Fatal("expected settlement")
		}
	})
}

func TestSettleSuccess(t *testing.T) {
	ctx := context.Background()
	carts := &fakeCarts{items: twoLineCart()}
	orders := &fakeOrders{}
	customers := &fakeCustomers{info: customer()}
	svc := NewService(carts, orders, customers, successVerifier(), false)

	receipt, err := svc.Settle(ctx, "s1", "u1", "ref-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receipt.OrderID != "order-1" || receipt.AlreadySettled {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if got := receipt.Total.StringFixed(2); got != "2500.00" {
		t.Fatalf("expected total 2500.00, got %s", got)
	}

	o := orders.settled[0]
	if o.UserID != "u1" || o.Status != orderdomain.StatusPaid || o.Reference != "ref-1" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if len(o.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(o.Items))
	}
	if o.Name != "Ada Obi" || o.Email != "ada@example.com" {
		t.Fatalf("customer snapshot missing: %+v", o)
	}

	if carts.cleared != 1 {
		t.Fatal("cart must be cleared after settlement")
	}
	if customers.deleted != 1 {
		t.Fatal("customer info must be discarded after settlement")
	}
}

func TestSettleDuplicateReferenceIsNoop(t *testing.T) {
	ctx := context.Background()
	existing := orderdomain.Order{ID: "order-0", Reference: "ref-1", TotalAmount: price("2500.00")}
	orders := &fakeOrders{settleErr: orderapp.ErrDuplicateReference, existing: &existing}
	carts := &fakeCarts{items: twoLineCart()}
	svc := NewService(carts, orders, &fakeCustomers{info: customer()}, successVerifier(), false)

	receipt, err := svc.Settle(ctx, "s1", "u1", "ref-1")
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if !receipt.AlreadySettled || receipt.OrderID != "order-0" {
		t.Fatalf("expected existing order receipt, got %+v", receipt)
	}
	if len(orders.settled) != 0 {
		t.Fatal("duplicate reference must not create a second order")
	}
}

func TestSettleInsufficientStockAborts(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{settleErr: orderapp.ErrInsufficientStock}
	carts := &fakeCarts{items: twoLineCart()}
	customers := &fakeCustomers{info: customer()}
	svc := NewService(carts, orders, customers, successVerifier(), false)

	_, err := svc.Settle(ctx, "s1", "u1", "ref-1")
	if !errors.Is(err, ErrStockChanged) {
		t.Fatalf("expected ErrStockChanged, got %v", err)
	}
	if carts.reconciled != 1 {
		t.Fatal("cart must self-heal after a stock abort")
	}
	if carts.cleared != 0 || customers.deleted != 0 {
		t.Fatal("aborted settlement must keep cart and customer info")
	}
}

func TestCheckoutView(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart -> ErrEmptyCart", func(t *testing.T) {
		svc := NewService(&fakeCarts{}, &fakeOrders{}, &fakeCustomers{}, successVerifier(), false)
		_, err := svc.Checkout(ctx, "s1")
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("totals and kobo amount", func(t *testing.T) {
		svc := NewService(&fakeCarts{items: twoLineCart()}, &fakeOrders{}, &fakeCustomers{info: customer()}, successVerifier(), false)
		view, err := svc.Checkout(ctx, "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := view.Total.StringFixed(2); got != "2500.00" {
			t.Fatalf("expected total 2500.00, got %s", got)
		}
		if view.AmountKobo != 250000 {
			t.Fatalf("expected 250000 kobo, got %d", view.AmountKobo)
		}
		if !view.HasInfo {
			t.Fatal("expected stored customer info")
		}
	})
}

func TestSaveCustomerInfoValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeCarts{}, &fakeOrders{}, &fakeCustomers{}, successVerifier(), false)

	t.Run("bad email -> invalid", func(t *testing.T) {
		info := *customer()
		info.Email = "not-an-email"
		if err := svc.SaveCustomerInfo(ctx, "s1", info); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("bad phone -> invalid", func(t *testing.T) {
		info := *customer()
		info.Phone = "abc"
		if err := svc.SaveCustomerInfo(ctx, "s1", info); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("valid info -> saved", func(t *testing.T) {
		customers := &fakeCustomers{}
		svc := NewService(&fakeCarts{}, &fakeOrders{}, customers, successVerifier(), false)
		if err := svc.SaveCustomerInfo(ctx, "s1", *customer()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if customers.info == nil {
			t.Fatal("expected info persisted")
		}
	})
}
