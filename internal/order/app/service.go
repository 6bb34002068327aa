package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/seyifunmi/clinicshop/internal/order/domain"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("order not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrDuplicateReference = errors.New("payment reference already settled")
	ErrLineTotalMismatch  = errors.New("order total does not match its lines")
)

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

// Settle writes the order, its items and the stock decrements atomically.
// The order must arrive fully built (status, snapshots, totals); this is
// the durable half of the settlement workflow.
func (s *Service) Settle(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.Reference == "" || order.UserID == "" || len(order.Items) == 0 {
		return domain.Order{}, ErrInvalidInput
	}

	sum := decimal.Zero
	for i, it := range order.Items {
		if it.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: item %d quantity %d", ErrInvalidInput, i, it.Quantity)
		}
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !sum.Equal(order.TotalAmount) {
		return domain.Order{}, ErrLineTotalMismatch
	}

	return s.repo.SettleTx(ctx, order)
}

func (s *Service) GetByReference(ctx context.Context, reference string) (domain.Order, error) {
	if strings.TrimSpace(reference) == "" {
		return domain.Order{}, ErrInvalidInput
	}
	return s.repo.GetByReference(ctx, reference)
}

// History lists a user's orders, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}
