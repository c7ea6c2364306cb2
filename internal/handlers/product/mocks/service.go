package mocks

import (
	"context"

	"shopapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *Service) GetProduct(ctx context.Context, id int) (models.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Error(1)
}
func (m *Service) AddProduct(ctx context.Context, product models.NewProduct) (models.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(models.Product), args.Error(1)
}
func (m *Service) UpdateQty(ctx context.Context, id int, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}
