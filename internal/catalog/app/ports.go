package app

import (
	"context"

	"github.com/seyifunmi/clinicshop/internal/catalog/domain"
)

type DrugRepo interface {
	Get(ctx context.Context, id string) (domain.Drug, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Drug, error)
	List(ctx context.Context, categoryID string) ([]domain.Drug, error)
	ListCategories(ctx context.Context) ([]domain.DrugCategory, error)
}
