package services

import (
	"context"

	"github.com/lborres/inventrack/core"
)

const productResource = "product"

type ProductService struct {
	storage  core.ProductStorage
	validate *Validator
}

func NewProductService(storage core.ProductStorage, validate *Validator) *ProductService {
	return &ProductService{storage: storage, validate: validate}
}

func (s *ProductService) List(ctx context.Context) ([]*core.ProductView, error) {
	products, err := s.storage.ListProducts(ctx)
	if err != nil {
		return nil, core.Translate(err, productResource)
	}

	views := make([]*core.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, core.NewProductView(p))
	}
	return views, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*core.ProductView, error) {
	p, err := s.storage.GetProduct(ctx, id)
	if err != nil {
		return nil, core.Translate(err, productResource)
	}
	return core.NewProductView(p), nil
}

func (s *ProductService) Create(ctx context.Context, input core.ProductInput) (*core.ProductView, error) {
	if err := s.validate.Validate(&input); err != nil {
		return nil, err
	}

	p := input.Product()
	if err := s.storage.CreateProduct(ctx, p); err != nil {
		return nil, core.Translate(err, productResource)
	}
	return core.NewProductView(p), nil
}

func (s *ProductService) Update(ctx context.Context, id int64, patch core.ProductPatch) (*core.ProductView, error) {
	if err := s.validate.Validate(&patch); err != nil {
		return nil, err
	}
	if len(patch.Assignments()) == 0 {
		return nil, core.ErrEmptyPatch
	}

	p, err := s.storage.UpdateProduct(ctx, id, &patch)
	if err != nil {
		return nil, core.Translate(err, productResource)
	}
	return core.NewProductView(p), nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteProduct(ctx, id); err != nil {
		return core.Translate(err, productResource)
	}
	return nil
}
