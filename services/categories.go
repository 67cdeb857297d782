package services

import (
	"context"

	"github.com/lborres/inventrack/core"
)

type CategoryService struct {
	storage core.CategoryStorage
}

func NewCategoryService(storage core.CategoryStorage) *CategoryService {
	return &CategoryService{storage: storage}
}

func (s *CategoryService) List(ctx context.Context) ([]*core.Category, error) {
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		return nil, core.Translate(err, "category")
	}
	return categories, nil
}
