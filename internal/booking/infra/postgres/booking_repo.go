package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seyifunmi/clinicshop/internal/booking/app"
	"github.com/seyifunmi/clinicshop/internal/booking/domain"
)

type injectionCategoryRow struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	Description string
}

func (injectionCategoryRow) TableName() string { return "injection_categories" }

// bookingRow carries the composite unique index that makes a slot claimable
// by at most one booking, no matter how many submissions race.
type bookingRow struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	CategoryID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_booking_slot"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:idx_booking_slot"`
	StartTime   string    `gorm:"size:5;not null;uniqueIndex:idx_booking_slot"`
	PatientName string    `gorm:"size:200;not null"`
	Phone       string    `gorm:"size:15;not null"`
	CreatedAt   time.Time
}

func (bookingRow) TableName() string { return "bookings" }

func Models() []any {
	return []any{&injectionCategoryRow{}, &bookingRow{}}
}

type BookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	row := bookingRow{
		ID:          uuid.NewString(),
		CategoryID:  b.CategoryID,
		Date:        b.Date,
		StartTime:   b.StartTime,
		PatientName: b.PatientName,
		Phone:       b.Phone,
	}

	err := r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Booking{}, app.ErrSlotTaken
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.Booking{}, app.ErrInvalidInput
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	b.ID = row.ID
	b.CreatedAt = row.CreatedAt
	return b, nil
}

func (r *BookingRepo) ListCategories(ctx context.Context) ([]domain.InjectionCategory, error) {
	var rows []injectionCategoryRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list injection categories: %w", err)
	}

	out := make([]domain.InjectionCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.InjectionCategory{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
		})
	}
	return out, nil
}
