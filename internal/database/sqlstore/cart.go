package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	databaseerrors "shopapi/internal/database"
	"shopapi/internal/models"
	"shopapi/pkg/lib/logger/sl"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

func (s *Storage) GetCart(ctx context.Context, username string) ([]models.CartRecord, error) {
	const op = "database.sqlstore.GetCart"
	log := s.log.With("op", op, "username", username)

	if err := checkContext(ctx, log); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records := make([]models.CartRecord, 0, 1)
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(`
		SELECT id, username, contents, cost FROM cart
		WHERE username=?
		ORDER BY id;
	`), username); err != nil {
		log.Error("Failed to select cart rows", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// AddToCart appends productId to the user's first readable cart row, creating
// the row when there is none, and adds the product's cost to the row total.
func (s *Storage) AddToCart(ctx context.Context, username string, productId int) error {
	const op = "database.sqlstore.AddToCart"
	log := s.log.With("op", op, "username", username, "product_id", productId)

	if err := checkContext(ctx, log); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("Failed to begin transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	cost, err := productCost(ctx, tx, productId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Product doesn't exists", sl.Err(databaseerrors.ErrNotFound))
			return fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
		}

		log.Error("Error checking product existence", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := cartRows(ctx, tx, username)
	if err != nil {
		log.Error("Failed to select cart rows", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	target, ids := firstReadable(rows)
	if target == nil {
		contents, err := models.EncodeProductIDs([]int{productId})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO cart (username, contents, cost)
			VALUES (?, ?, ?);
		`), username, contents, cost); err != nil {
			log.Error("Failed to insert cart", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	} else {
		contents, err := models.EncodeProductIDs(append(ids, productId))
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := updateCart(ctx, tx, target.Id, contents, target.Cost.Add(cost)); err != nil {
			log.Error("Failed to update cart", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveFromCart drops the first occurrence of productId from the user's cart
// rows. Removing an id that is not in the cart is a no-op.
func (s *Storage) RemoveFromCart(ctx context.Context, username string, productId int) error {
	const op = "database.sqlstore.RemoveFromCart"
	log := s.log.With("op", op, "username", username, "product_id", productId)

	if err := checkContext(ctx, log); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("Failed to begin transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	rows, err := cartRows(ctx, tx, username)
	if err != nil {
		log.Error("Failed to select cart rows", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, row := range rows {
		ids, err := row.ProductIDs()
		if err != nil {
			continue
		}

		idx := slices.Index(ids, productId)
		if idx < 0 {
			continue
		}

		cost, err := productCost(ctx, tx, productId)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			log.Error("Failed to select product cost", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}

		total := row.Cost.Sub(cost)
		if total.IsNegative() {
			total = decimal.Zero
		}

		contents, err := models.EncodeProductIDs(slices.Delete(ids, idx, idx+1))
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := updateCart(ctx, tx, row.Id, contents, total); err != nil {
			log.Error("Failed to update cart", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}

		break
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteCart(ctx context.Context, username string) error {
	const op = "database.sqlstore.DeleteCart"
	log := s.log.With("op", op, "username", username)

	if err := checkContext(ctx, log); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM cart
		WHERE username=?;
	`), username); err != nil {
		log.Error("Failed to delete cart", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func productCost(ctx context.Context, tx *sqlx.Tx, productId int) (decimal.Decimal, error) {
	var cost decimal.Decimal
	err := tx.QueryRowxContext(ctx, tx.Rebind(`
		SELECT cost FROM product
		WHERE id=?;
	`), productId).Scan(&cost)
	return cost, err
}

// cartRows reads the user's rows for a read-modify-write inside tx. On
// Postgres the rows stay locked until tx ends, so concurrent updates of one
// cart run one after another. SQLite has a single connection and no FOR UPDATE.
func cartRows(ctx context.Context, tx *sqlx.Tx, username string) ([]models.CartRecord, error) {
	lock := ""
	if tx.DriverName() == DriverPostgres {
		lock = " FOR UPDATE"
	}

	var rows []models.CartRecord
	err := tx.SelectContext(ctx, &rows, tx.Rebind(`
		SELECT id, username, contents, cost FROM cart
		WHERE username=?
		ORDER BY id`+lock+`;
	`), username)
	return rows, err
}

func updateCart(ctx context.Context, tx *sqlx.Tx, cartId int, contents string, cost decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE cart SET contents=?, cost=?
		WHERE id=?;
	`), contents, cost, cartId)
	return err
}

// firstReadable returns the first row whose contents decode, with its ids.
func firstReadable(rows []models.CartRecord) (*models.CartRecord, []int) {
	for i := range rows {
		ids, err := rows[i].ProductIDs()
		if err != nil {
			continue
		}
		return &rows[i], ids
	}
	return nil, nil
}
