package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	cartapp "github.com/seyifunmi/clinicshop/internal/cart/app"
	"github.com/seyifunmi/clinicshop/internal/checkout/domain"
	orderapp "github.com/seyifunmi/clinicshop/internal/order/app"
	orderdomain "github.com/seyifunmi/clinicshop/internal/order/domain"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrMissingCustomerInfo = errors.New("customer info is missing")
	ErrPaymentFailed       = errors.New("payment verification failed")
	ErrEmailMismatch       = errors.New("payment email does not match order")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrStockChanged        = errors.New("stock changed since the cart was populated")
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// CheckoutView is what the checkout page needs: the reconciled lines, the
// grand total and the gateway amount in kobo.
type CheckoutView struct {
	Items        []cartapp.Item
	Total        decimal.Decimal
	AmountKobo   int64
	Dropped      []string
	CustomerInfo domain.CustomerInfo
	HasInfo      bool
}

type Service struct {
	carts     Carts
	orders    Orders
	customers CustomerStore
	verifier  PaymentVerifier

	// relaxEmailMatch skips the payer-email check; only ever true in dev,
	// where gateway test transactions carry dummy customer data.
	relaxEmailMatch bool
}

func NewService(carts Carts, orders Orders, customers CustomerStore, verifier PaymentVerifier, relaxEmailMatch bool) *Service {
	return &Service{
		carts:           carts,
		orders:          orders,
		customers:       customers,
		verifier:        verifier,
		relaxEmailMatch: relaxEmailMatch,
	}
}

// Checkout prepares the checkout page: reconciles stale lines, then totals
// what survived. ErrEmptyCart aborts to the drug list.
func (s *Service) Checkout(ctx context.Context, sessionID string) (CheckoutView, error) {
	_, dropped, err := s.carts.Reconcile(ctx, sessionID)
	if err != nil {
		return CheckoutView{}, err
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return CheckoutView{}, err
	}
	if len(items) == 0 {
		return CheckoutView{Dropped: dropped}, ErrEmptyCart
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}

	info, hasInfo, err := s.customers.Get(ctx, sessionID)
	if err != nil {
		return CheckoutView{}, err
	}

	return CheckoutView{
		Items:        items,
		Total:        total,
		AmountKobo:   total.Shift(2).IntPart(),
		Dropped:      dropped,
		CustomerInfo: info,
		HasInfo:      hasInfo,
	}, nil
}

// SaveCustomerInfo validates and stashes the delivery snapshot in the
// session for the settlement step.
func (s *Service) SaveCustomerInfo(ctx context.Context, sessionID string, info domain.CustomerInfo) error {
	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)

	if info.Name == "" || info.Address == "" {
		return ErrInvalidInput
	}
	if _, err := mail.ParseAddress(info.Email); err != nil {
		return fmt.Errorf("%w: bad email", ErrInvalidInput)
	}
	if !phonePattern.MatchString(info.Phone) {
		return fmt.Errorf("%w: bad phone", ErrInvalidInput)
	}

	return s.customers.Save(ctx, sessionID, info)
}

// Settle converts a verified payment into a durable order.
//
// The workflow: preconditions (cart, customer info) -> gateway verify ->
// atomic order+items+stock transaction -> session cleanup. A reference
// that was already settled short-circuits to a no-op success so retried
// gateway callbacks never duplicate an order.
func (s *Service) Settle(ctx context.Context, sessionID, userID, reference string) (domain.Receipt, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" || userID == "" {
		return domain.Receipt{}, ErrInvalidInput
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if len(items) == 0 {
		return domain.Receipt{}, ErrEmptyCart
	}

	info, ok, err := s.customers.Get(ctx, sessionID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if !ok {
		return domain.Receipt{}, ErrMissingCustomerInfo
	}

	// Nothing durable has been touched up to and including verification,
	// so a timeout here is safely retriable.
	result, err := s.verifier.Verify(ctx, reference)
	if err != nil {
		return domain.Receipt{}, err
	}
	if result.Status != "success" {
		return domain.Receipt{}, ErrPaymentFailed
	}
	if !s.relaxEmailMatch && !strings.EqualFold(result.PayerEmail, info.Email) {
		return domain.Receipt{}, ErrEmailMismatch
	}

	total := decimal.Zero
	order := orderdomain.Order{
		UserID:    userID,
		Reference: reference,
		Status:    orderdomain.StatusPaid,
		Name:      info.Name,
		Email:     info.Email,
		Phone:     info.Phone,
		Address:   info.Address,
	}
	for _, it := range items {
		total = total.Add(it.LineTotal)
		order.Items = append(order.Items, orderdomain.OrderItem{
			DrugID:    it.Drug.ID,
			DrugName:  it.Drug.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	order.TotalAmount = total

	created, err := s.orders.Settle(ctx, order)
	switch {
	case errors.Is(err, orderapp.ErrDuplicateReference):
		// A retried callback or a concurrent settlement already won.
		// Swallow it as an idempotent no-op success on the existing order.
		existing, getErr := s.orders.GetByReference(ctx, reference)
		if getErr != nil {
			return domain.Receipt{}, getErr
		}
		return domain.Receipt{
			OrderID:        existing.ID,
			Reference:      existing.Reference,
			Total:          existing.TotalAmount,
			AlreadySettled: true,
		}, nil
	case errors.Is(err, orderapp.ErrInsufficientStock):
		// The whole attempt rolled back. Drop the offending lines so the
		// user's next look at the cart is honest, then send them there.
		_, _, _ = s.carts.Reconcile(ctx, sessionID)
		return domain.Receipt{}, fmt.Errorf("%w: %v", ErrStockChanged, err)
	case err != nil:
		return domain.Receipt{}, err
	}

	// Cleanup after the commit is best effort: the order exists either
	// way, and a leftover cart self-heals on its next read.
	_ = s.carts.Clear(ctx, sessionID)
	_ = s.customers.Delete(ctx, sessionID)

	return domain.Receipt{
		OrderID:   created.ID,
		Reference: created.Reference,
		Total:     created.TotalAmount,
	}, nil
}
