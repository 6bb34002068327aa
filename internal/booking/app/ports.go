package app

import (
	"context"

	"github.com/seyifunmi/clinicshop/internal/booking/domain"
)

// BookingRepo commits bookings. Create must rely on a storage-layer
// uniqueness constraint for the slot triple and return ErrSlotTaken when
// another booking already holds it; an application-level check-then-insert
// would leave a race window between concurrent submissions.
type BookingRepo interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	ListCategories(ctx context.Context) ([]domain.InjectionCategory, error)
}
