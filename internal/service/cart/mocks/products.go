package mocks

import (
	"context"

	"shopapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Products struct {
	mock.Mock
}

func (m *Products) GetProduct(ctx context.Context, id int) (models.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Error(1)
}
