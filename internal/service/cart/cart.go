package cartservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shopapi/internal/models"
	serviceerrors "shopapi/internal/service"
	"shopapi/pkg/lib/logger/sl"
)

type CartStorage interface {
	GetCart(ctx context.Context, username string) ([]models.CartRecord, error)
	AddToCart(ctx context.Context, username string, productId int) error
	RemoveFromCart(ctx context.Context, username string, productId int) error
	DeleteCart(ctx context.Context, username string) error
}

// ProductGetter resolves the product ids stored in a cart.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int) (models.Product, error)
}

type CartService struct {
	log      *slog.Logger
	storage  CartStorage
	products ProductGetter
}

func New(log *slog.Logger, storage CartStorage, products ProductGetter) *CartService {
	return &CartService{
		log:      log,
		storage:  storage,
		products: products,
	}
}

// recordResult is the outcome of decoding one cart row. A row with a non-nil
// err is skipped and contributes nothing to the cart.
type recordResult struct {
	record models.CartRecord
	ids    []int
	err    error
}

func (r recordResult) skipped() bool {
	return r.err != nil
}

func decodeRecords(records []models.CartRecord) []recordResult {
	results := make([]recordResult, 0, len(records))
	for _, record := range records {
		ids, err := record.ProductIDs()
		results = append(results, recordResult{record: record, ids: ids, err: err})
	}
	return results
}

// GetCart returns every product in the user's cart rows, in row order.
// Rows whose contents cannot be decoded are skipped and ids the store no
// longer knows are dropped. Any other failure is returned.
func (c *CartService) GetCart(ctx context.Context, username string) ([]models.Product, error) {
	const op = "service.cart.GetCart"
	log := c.log.With("op", op, "username", username)

	records, err := c.records(ctx, log, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := make([]models.Product, 0)
	for _, res := range decodeRecords(records) {
		if res.skipped() {
			log.Warn("Skipping cart row with unreadable contents", "cart_id", res.record.Id, sl.Err(res.err))
			continue
		}

		resolved, err := c.resolve(ctx, log, res.ids)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, resolved...)
	}

	return products, nil
}

// LoadCart materializes the user's first readable cart row. It is the row
// AddToCart appends to. When a user has several rows, later rows are not
// merged in, so Contents can be a prefix of what GetCart returns.
func (c *CartService) LoadCart(ctx context.Context, username string) (models.Cart, error) {
	const op = "service.cart.LoadCart"
	log := c.log.With("op", op, "username", username)

	records, err := c.records(ctx, log, username)
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, res := range decodeRecords(records) {
		if res.skipped() {
			log.Warn("Skipping cart row with unreadable contents", "cart_id", res.record.Id, sl.Err(res.err))
			continue
		}

		contents, err := c.resolve(ctx, log, res.ids)
		if err != nil {
			return models.Cart{}, fmt.Errorf("%s: %w", op, err)
		}

		return models.Cart{
			Id:       res.record.Id,
			Username: res.record.Username,
			Contents: contents,
			Cost:     res.record.Cost,
		}, nil
	}

	log.Warn("cart not found")
	return models.Cart{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrNotFound)
}

func (c *CartService) AddToCart(ctx context.Context, username string, productId int) error {
	const op = "service.cart.AddToCart"
	log := c.log.With("op", op, "username", username, "product_id", productId)

	if err := precheck(ctx, log, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.storage.AddToCart(ctx, username, productId); err != nil {
		err = serviceerrors.Translate(err)
		serviceerrors.LogFailure(log, "Failed to add product to cart", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *CartService) RemoveFromCart(ctx context.Context, username string, productId int) error {
	const op = "service.cart.RemoveFromCart"
	log := c.log.With("op", op, "username", username, "product_id", productId)

	if err := precheck(ctx, log, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.storage.RemoveFromCart(ctx, username, productId); err != nil {
		err = serviceerrors.Translate(err)
		serviceerrors.LogFailure(log, "Failed to remove product from cart", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *CartService) DeleteCart(ctx context.Context, username string) error {
	const op = "service.cart.DeleteCart"
	log := c.log.With("op", op, "username", username)

	if err := precheck(ctx, log, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.storage.DeleteCart(ctx, username); err != nil {
		err = serviceerrors.Translate(err)
		serviceerrors.LogFailure(log, "Failed to delete cart", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *CartService) records(ctx context.Context, log *slog.Logger, username string) ([]models.CartRecord, error) {
	if err := precheck(ctx, log, username); err != nil {
		return nil, err
	}

	records, err := c.storage.GetCart(ctx, username)
	if err != nil {
		err = serviceerrors.Translate(err)
		serviceerrors.LogFailure(log, "Failed to get cart rows", err)
		return nil, err
	}

	return records, nil
}

func (c *CartService) resolve(ctx context.Context, log *slog.Logger, ids []int) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		product, err := c.products.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, serviceerrors.ErrNotFound) {
				log.Warn("Dropping unknown product from cart", "product_id", id)
				continue
			}

			log.Error("Failed to resolve cart product", "product_id", id, sl.Err(err))
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func precheck(ctx context.Context, log *slog.Logger, username string) error {
	if strings.TrimSpace(username) == "" {
		log.Warn("empty username")
		return fmt.Errorf("username is required: %w", serviceerrors.ErrInvalidArgument)
	}

	if err := ctx.Err(); err != nil {
		log.Warn("context is over", sl.Err(err))
		return serviceerrors.Translate(err)
	}

	return nil
}
