package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/seyifunmi/clinicshop/internal/catalog/app"
	"github.com/seyifunmi/clinicshop/internal/catalog/domain"
)

type drugCategoryRow struct {
	ID   string `gorm:"type:uuid;primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

func (drugCategoryRow) TableName() string { return "drug_categories" }

type drugRow struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	Name       string          `gorm:"size:200;not null"`
	CategoryID string          `gorm:"type:uuid;index;not null"`
	Category   drugCategoryRow `gorm:"foreignKey:CategoryID"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Stock      int             `gorm:"not null;check:stock >= 0"`
	ImagePath  string          `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (drugRow) TableName() string { return "drugs" }

// Models lists the rows this package owns, for migration.
func Models() []any {
	return []any{&drugCategoryRow{}, &drugRow{}}
}

type DrugRepo struct {
	db *gorm.DB
}

func NewDrugRepo(db *gorm.DB) *DrugRepo {
	return &DrugRepo{db: db}
}

func (r *DrugRepo) Get(ctx context.Context, id string) (domain.Drug, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Drug{}, app.ErrNotFound
	}

	var row drugRow
	err := r.db.WithContext(ctx).Preload("Category").First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Drug{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Drug{}, fmt.Errorf("failed to get drug: %w", err)
	}

	return toDomain(row), nil
}

func (r *DrugRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Drug, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	var rows []drugRow
	if err := r.db.WithContext(ctx).Preload("Category").Where("id IN ?", valid).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list drugs by ids: %w", err)
	}

	out := make([]domain.Drug, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r *DrugRepo) List(ctx context.Context, categoryID string) ([]domain.Drug, error) {
	q := r.db.WithContext(ctx).Preload("Category").Order("name")
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	var rows []drugRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list drugs: %w", err)
	}

	out := make([]domain.Drug, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r *DrugRepo) ListCategories(ctx context.Context) ([]domain.DrugCategory, error) {
	var rows []drugCategoryRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list drug categories: %w", err)
	}

	out := make([]domain.DrugCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DrugCategory{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func toDomain(row drugRow) domain.Drug {
	return domain.Drug{
		ID:         row.ID,
		Name:       row.Name,
		CategoryID: row.CategoryID,
		Category:   row.Category.Name,
		Price:      row.Price,
		Stock:      row.Stock,
		ImagePath:  row.ImagePath,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
