package catalogreader

import (
	"context"
	"errors"

	cartapp "github.com/seyifunmi/clinicshop/internal/cart/app"
	catalogapp "github.com/seyifunmi/clinicshop/internal/catalog/app"
)

// Reader adapts the catalog service to the cart's DrugReader port.
type Reader struct {
	catalog *catalogapp.Service
}

func New(catalog *catalogapp.Service) *Reader {
	return &Reader{catalog: catalog}
}

func (r *Reader) Get(ctx context.Context, id string) (cartapp.Drug, error) {
	drug, err := r.catalog.GetDrug(ctx, id)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return cartapp.Drug{}, cartapp.ErrDrugNotFound
	}
	if err != nil {
		return cartapp.Drug{}, err
	}

	return cartapp.Drug{ID: drug.ID, Name: drug.Name, Price: drug.Price, Stock: drug.Stock}, nil
}

func (r *Reader) ListByIDs(ctx context.Context, ids []string) ([]cartapp.Drug, error) {
	drugs, err := r.catalog.GetDrugs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]cartapp.Drug, 0, len(drugs))
	for _, d := range drugs {
		out = append(out, cartapp.Drug{ID: d.ID, Name: d.Name, Price: d.Price, Stock: d.Stock})
	}
	return out, nil
}
