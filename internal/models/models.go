package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Qty         int             `json:"qty"`
}

// ProductRecord is a product row as the storage returns it.
type ProductRecord struct {
	Id          int             `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Cost        decimal.Decimal `db:"cost"`
	Qty         int             `db:"qty"`
}

type NewProduct struct {
	Name        string          `json:"name" db:"name" validate:"required"`
	Description string          `json:"description" db:"description"`
	Cost        decimal.Decimal `json:"cost" db:"cost"`
	Qty         int             `json:"qty" db:"qty" validate:"gte=0"`
}

func LoadProduct(r ProductRecord) Product {
	return Product{
		Id:          r.Id,
		Name:        r.Name,
		Description: r.Description,
		Cost:        r.Cost,
		Qty:         r.Qty,
	}
}

func (p Product) Record() ProductRecord {
	return ProductRecord{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Cost:        p.Cost,
		Qty:         p.Qty,
	}
}

type Cart struct {
	Id       int             `json:"id"`
	Username string          `json:"username"`
	Contents []Product       `json:"contents"`
	Cost     decimal.Decimal `json:"cost"`
}

// CartRecord is a cart row. Contents holds a JSON array of product ids.
type CartRecord struct {
	Id       int             `db:"id"`
	Username string          `db:"username"`
	Contents string          `db:"contents"`
	Cost     decimal.Decimal `db:"cost"`
}

func (r CartRecord) ProductIDs() ([]int, error) {
	var ids []int
	if err := json.Unmarshal([]byte(r.Contents), &ids); err != nil {
		return nil, fmt.Errorf("cart %d: decode contents: %w", r.Id, err)
	}
	return ids, nil
}

func EncodeProductIDs(ids []int) (string, error) {
	if ids == nil {
		ids = []int{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
