package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	databaseerrors "shopapi/internal/database"
	"shopapi/internal/models"
	"shopapi/pkg/lib/logger/sl"
)

func (s *Storage) ListProducts(ctx context.Context) ([]models.ProductRecord, error) {
	const op = "database.sqlstore.ListProducts"
	log := s.log.With("op", op)

	if err := checkContext(ctx, log); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records := make([]models.ProductRecord, 0, 16)
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(`
		SELECT id, name, description, cost, qty FROM product
		ORDER BY id;
	`)); err != nil {
		log.Error("Failed to select products", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (s *Storage) GetProduct(ctx context.Context, id int) (models.ProductRecord, error) {
	const op = "database.sqlstore.GetProduct"
	log := s.log.With("op", op, "product_id", id)

	if err := checkContext(ctx, log); err != nil {
		return models.ProductRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	var record models.ProductRecord
	if err := s.db.GetContext(ctx, &record, s.db.Rebind(`
		SELECT id, name, description, cost, qty FROM product
		WHERE id=?;
	`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Product doesn't exists", sl.Err(databaseerrors.ErrNotFound))
			return models.ProductRecord{}, fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
		}

		log.Error("Failed to select product", sl.Err(err))
		return models.ProductRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return record, nil
}

func (s *Storage) AddProduct(ctx context.Context, product models.NewProduct) (models.ProductRecord, error) {
	const op = "database.sqlstore.AddProduct"
	log := s.log.With("op", op)

	if err := checkContext(ctx, log); err != nil {
		return models.ProductRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	var id int
	if err := s.db.QueryRowxContext(ctx, s.db.Rebind(`
		INSERT INTO product (name, description, cost, qty)
		VALUES (?, ?, ?, ?)
		RETURNING id;
	`), product.Name, product.Description, product.Cost, product.Qty).Scan(&id); err != nil {
		log.Error("Failed to insert product", sl.Err(err))
		return models.ProductRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.ProductRecord{
		Id:          id,
		Name:        product.Name,
		Description: product.Description,
		Cost:        product.Cost,
		Qty:         product.Qty,
	}, nil
}

func (s *Storage) UpdateQty(ctx context.Context, id int, qty int) error {
	const op = "database.sqlstore.UpdateQty"
	log := s.log.With("op", op, "product_id", id)

	if err := checkContext(ctx, log); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE product SET qty=?
		WHERE id=?;
	`), qty, id)
	if err != nil {
		log.Error("Failed to update quantity", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("Failed to read affected rows", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		log.Warn("Product doesn't exists", sl.Err(databaseerrors.ErrNotFound))
		return fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}

	return nil
}
