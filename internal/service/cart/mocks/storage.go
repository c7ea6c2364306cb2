package mocks

import (
	"context"

	"shopapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Storage struct {
	mock.Mock
}

func (m *Storage) GetCart(ctx context.Context, username string) ([]models.CartRecord, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]models.CartRecord), args.Error(1)
}
func (m *Storage) AddToCart(ctx context.Context, username string, productId int) error {
	args := m.Called(ctx, username, productId)
	return args.Error(0)
}
func (m *Storage) RemoveFromCart(ctx context.Context, username string, productId int) error {
	args := m.Called(ctx, username, productId)
	return args.Error(0)
}
func (m *Storage) DeleteCart(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}
