package services

import (
	"context"

	"github.com/lborres/inventrack/core"
)

const supplierResource = "supplier"

// DefaultMaxInMemoryJoin bounds suppliers × products for the in-memory
// aggregation used when the store cannot aggregate itself.
const DefaultMaxInMemoryJoin = 1_000_000

type SupplierService struct {
	storage         core.SupplierStorage
	products        core.ProductStorage
	validate        *Validator
	maxInMemoryJoin int
}

func NewSupplierService(storage core.SupplierStorage, products core.ProductStorage, validate *Validator) *SupplierService {
	return &SupplierService{
		storage:         storage,
		products:        products,
		validate:        validate,
		maxInMemoryJoin: DefaultMaxInMemoryJoin,
	}
}

// List returns every supplier with the stock value and quantity of its products.
func (s *SupplierService) List(ctx context.Context) ([]*core.SupplierSummary, error) {
	if agg, ok := s.storage.(core.SupplierAggregator); ok {
		summaries, err := agg.ListSupplierSummaries(ctx)
		if err != nil {
			return nil, core.Translate(err, supplierResource)
		}
		return summaries, nil
	}

	suppliers, err := s.storage.ListSuppliers(ctx)
	if err != nil {
		return nil, core.Translate(err, supplierResource)
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, core.Translate(err, productResource)
	}
	if len(suppliers)*len(products) > s.maxInMemoryJoin {
		return nil, core.ErrAggregationTooLarge
	}

	return summarize(suppliers, products), nil
}

// summarize groups products by supplier id in one pass.
func summarize(suppliers []*core.Supplier, products []*core.Product) []*core.SupplierSummary {
	summaries := make([]*core.SupplierSummary, 0, len(suppliers))
	byID := make(map[int64]*core.SupplierSummary, len(suppliers))
	for _, sup := range suppliers {
		summary := &core.SupplierSummary{Supplier: sup}
		summaries = append(summaries, summary)
		byID[sup.ID] = summary
	}

	for _, p := range products {
		if p.SupplierID == nil {
			continue
		}
		summary, ok := byID[*p.SupplierID]
		if !ok {
			continue
		}
		qty := p.TotalQuantity()
		summary.StockWholesaleValue += p.WholesalePricePerUnit * float64(qty)
		summary.StockRetailValue += p.RetailPricePerUnit * float64(qty)
		summary.TotalQuantity += qty
	}

	return summaries
}

func (s *SupplierService) Get(ctx context.Context, id int64) (*core.Supplier, error) {
	sup, err := s.storage.GetSupplier(ctx, id)
	if err != nil {
		return nil, core.Translate(err, supplierResource)
	}
	return sup, nil
}

func (s *SupplierService) Create(ctx context.Context, input core.SupplierInput) (*core.Supplier, error) {
	if err := s.validate.Validate(&input); err != nil {
		return nil, err
	}

	sup := input.Supplier()
	if err := s.storage.CreateSupplier(ctx, sup); err != nil {
		return nil, core.Translate(err, supplierResource)
	}
	return sup, nil
}

func (s *SupplierService) Update(ctx context.Context, id int64, patch core.SupplierPatch) (*core.Supplier, error) {
	if err := s.validate.Validate(&patch); err != nil {
		return nil, err
	}
	if len(patch.Assignments()) == 0 {
		return nil, core.ErrEmptyPatch
	}

	sup, err := s.storage.UpdateSupplier(ctx, id, &patch)
	if err != nil {
		return nil, core.Translate(err, supplierResource)
	}
	return sup, nil
}

func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteSupplier(ctx, id); err != nil {
		return core.Translate(err, supplierResource)
	}
	return nil
}
