package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/seyifunmi/clinicshop/internal/order/app"
	"github.com/seyifunmi/clinicshop/internal/order/domain"
)

type orderRow struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	UserID      string          `gorm:"type:uuid;index;not null"`
	Reference   string          `gorm:"size:100;uniqueIndex;not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Name        string          `gorm:"size:255;not null"`
	Email       string          `gorm:"size:255;not null"`
	Phone       string          `gorm:"size:15;not null"`
	Address     string          `gorm:"not null"`
	Status      string          `gorm:"size:20;not null;default:pending"`
	Items       []orderItemRow  `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (orderRow) TableName() string { return "orders" }

type orderItemRow struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	OrderID   string          `gorm:"type:uuid;index;not null"`
	DrugID    string          `gorm:"type:uuid;index;not null"`
	DrugName  string          `gorm:"size:200;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (orderItemRow) TableName() string { return "order_items" }

func Models() []any {
	return []any{&orderRow{}, &orderItemRow{}}
}

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// SettleTx commits one settlement attempt atomically: order row (the
// unique reference doubles as the idempotency guard), item snapshots, and
// a conditional decrement per line. The decrement's WHERE clause makes
// "read current stock and subtract" indivisible with respect to other
// settlements touching the same drug; zero rows affected means the stock
// no longer covers the line and the whole attempt rolls back.
func (r *OrderRepo) SettleTx(ctx context.Context, o domain.Order) (domain.Order, error) {
	row := orderRow{
		ID:          uuid.NewString(),
		UserID:      o.UserID,
		Reference:   o.Reference,
		TotalAmount: o.TotalAmount,
		Name:        o.Name,
		Email:       o.Email,
		Phone:       o.Phone,
		Address:     o.Address,
		Status:      string(o.Status),
	}
	for _, it := range o.Items {
		row.Items = append(row.Items, orderItemRow{
			ID:        uuid.NewString(),
			OrderID:   row.ID,
			DrugID:    it.DrugID,
			DrugName:  it.DrugName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return app.ErrDuplicateReference
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, it := range row.Items {
			res := tx.Table("drugs").
				Where("id = ? AND stock >= ?", it.DrugID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for drug %s: %w", it.DrugID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: drug %s x%d", app.ErrInsufficientStock, it.DrugID, it.Quantity)
			}
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return r.GetByReference(ctx, o.Reference)
}

func (r *OrderRepo) GetByReference(ctx context.Context, reference string) (domain.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).Preload("Items").First(&row, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order by reference: %w", err)
	}
	return toDomain(row), nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var rows []orderRow
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func toDomain(row orderRow) domain.Order {
	o := domain.Order{
		ID:          row.ID,
		UserID:      row.UserID,
		Reference:   row.Reference,
		TotalAmount: row.TotalAmount,
		Name:        row.Name,
		Email:       row.Email,
		Phone:       row.Phone,
		Address:     row.Address,
		Status:      domain.Status(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	for _, it := range row.Items {
		o.Items = append(o.Items, domain.OrderItem{
			ID:        it.ID,
			OrderID:   it.OrderID,
			DrugID:    it.DrugID,
			DrugName:  it.DrugName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return o
}
