package productservice

import (
	"context"
	"fmt"
	"log/slog"

	"shopapi/internal/models"
	serviceerrors "shopapi/internal/service"
	"shopapi/pkg/lib/logger/sl"
)

type ProductStorage interface {
	ListProducts(ctx context.Context) ([]models.ProductRecord, error)
	GetProduct(ctx context.Context, id int) (models.ProductRecord, error)
	AddProduct(ctx context.Context, product models.NewProduct) (models.ProductRecord, error)
	UpdateQty(ctx context.Context, id int, qty int) error
}

type ProductService struct {
	log     *slog.Logger
	storage ProductStorage
}

func New(log *slog.Logger, storage ProductStorage) *ProductService {
	return &ProductService{
		log:     log,
		storage: storage,
	}
}

func (p *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "service.product.ListProducts"
	log := p.log.With("op", op)

	if err := ctx.Err(); err != nil {
		log.Warn("context is over", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, serviceerrors.Translate(err))
	}

	records, err := p.storage.ListProducts(ctx)
	if err != nil {
		err = serviceerrors.Translate(err)
		serviceerrors.LogFailure(log, "Failed to list products", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := make([]models.Product, 0, len(records))
	for _, record := range records {
		products = append(products, models.LoadProduct(record))
	}

	return products, nil
}

func (p *ProductService) GetProduct(ctx context.Context, id int) (models.Product, error) {
	const op = "service.product.GetProduct"
	log := p.log.With("op", op, "product_id", id)

	if err := ctx.Err(); err != nil {
		log.Warn("context is over", sl.Err(err))
		return models.Product{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(err))
	}

	record, err := p.storage.GetProduct(ctx, id)
	if err != nil {
		err = serviceerrors.Translate(err)
		serviceerrors.LogFailure(log, "Failed to get product", err)
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.LoadProduct(record), nil
}

// AddProduct forwards product to the storage as is. The storage assigns the id.
func (p *ProductService) AddProduct(ctx context.Context, product models.NewProduct) (models.Product, error) {
	const op = "service.product.AddProduct"
	log := p.log.With("op", op)

	if err := ctx.Err(); err != nil {
		log.Warn("context is over", sl.Err(err))
		return models.Product{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(err))
	}

	record, err := p.storage.AddProduct(ctx, product)
	if err != nil {
		err = serviceerrors.Translate(err)
		serviceerrors.LogFailure(log, "Failed to add product", err)
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.LoadProduct(record), nil
}

// UpdateQty rejects negative quantities without touching the storage.
// Existence of the product is left to the storage.
func (p *ProductService) UpdateQty(ctx context.Context, id int, qty int) error {
	const op = "service.product.UpdateQty"
	log := p.log.With("op", op, "product_id", id, "qty", qty)

	if qty < 0 {
		log.Warn("quantity cannot be negative")
		return fmt.Errorf("%s: quantity cannot be negative: %w", op, serviceerrors.ErrInvalidArgument)
	}

	if err := ctx.Err(); err != nil {
		log.Warn("context is over", sl.Err(err))
		return fmt.Errorf("%s: %w", op, serviceerrors.Translate(err))
	}

	if err := p.storage.UpdateQty(ctx, id, qty); err != nil {
		err = serviceerrors.Translate(err)
		serviceerrors.LogFailure(log, "Failed to update quantity", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
