package app

import (
	"context"
	"errors"
	"strings"

	"github.com/seyifunmi/clinicshop/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo DrugRepo
}

func NewService(repo DrugRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetDrug(ctx context.Context, id string) (domain.Drug, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Drug{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// GetDrugs resolves a batch of ids in one lookup. Ids that no longer exist
// are simply absent from the result; callers decide what a missing drug
// means for them.
func (s *Service) GetDrugs(ctx context.Context, ids []string) ([]domain.Drug, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

func (s *Service) ListDrugs(ctx context.Context, categoryID string) ([]domain.Drug, error) {
	return s.repo.List(ctx, strings.TrimSpace(categoryID))
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.DrugCategory, error) {
	return s.repo.ListCategories(ctx)
}
