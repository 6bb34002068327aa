package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/seyifunmi/clinicshop/internal/booking/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidSlot  = errors.New("booking time must be between 08:00 and 20:00")
	ErrPastDate     = errors.New("cannot book for past dates")
	ErrSlotTaken    = errors.New("time slot already booked")
)

type BookRequest struct {
	CategoryID  string
	PatientName string
	Phone       string
	Date        time.Time
	StartTime   string
}

type Service struct {
	repo BookingRepo
	now  func() time.Time
}

func NewService(repo BookingRepo) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Book validates the request and commits it. Slot collisions are left to
// the storage layer's uniqueness constraint; the loser of a concurrent
// race gets ErrSlotTaken, distinct from plain validation failure.
func (s *Service) Book(ctx context.Context, req BookRequest) (domain.Booking, error) {
	req.PatientName = strings.TrimSpace(req.PatientName)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.CategoryID == "" || req.PatientName == "" || req.Phone == "" {
		return domain.Booking{}, ErrInvalidInput
	}

	if !domain.StartInWindow(req.StartTime) {
		return domain.Booking{}, ErrInvalidSlot
	}

	today := dateOnly(s.now())
	if dateOnly(req.Date).Before(today) {
		return domain.Booking{}, ErrPastDate
	}

	return s.repo.Create(ctx, domain.Booking{
		CategoryID:  req.CategoryID,
		PatientName: req.PatientName,
		Phone:       req.Phone,
		Date:        dateOnly(req.Date),
		StartTime:   req.StartTime,
	})
}

func (s *Service) Categories(ctx context.Context) ([]domain.InjectionCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) Slots() []domain.Slot {
	return domain.Slots()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
