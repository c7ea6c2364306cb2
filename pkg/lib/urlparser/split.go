package urlparser

import (
	"errors"
	"strconv"
	"strings"
)

type ProductPath struct {
	ProductId int
	HasId     bool
	Qty       bool
}

// ParseProductPath accepts /products, /products/{id} and /products/{id}/qty.
func ParseProductPath(path string) (ProductPath, error) {
	parts := split(path)

	params := ProductPath{}

	if len(parts) == 0 || parts[0] != "products" {
		return params, errors.New("invalid path, expected /products")
	}

	switch len(parts) {
	case 1:
		return params, nil
	case 2, 3:
		productId, err := strconv.Atoi(parts[1])
		if err != nil {
			return params, errors.New("invalid productId, must be int")
		}
		params.ProductId = productId
		params.HasId = true

		if len(parts) == 3 {
			if parts[2] != "qty" {
				return params, errors.New("invalid path, expected /products/{productId}/qty")
			}
			params.Qty = true
		}
		return params, nil
	default:
		return params, errors.New("wrong url format")
	}
}

type CartPath struct {
	Username   string
	Items      bool
	Details    bool
	ProductId  int
	HasProduct bool
}

// ParseCartPath accepts /carts/{username}, /carts/{username}/details,
// /carts/{username}/items and /carts/{username}/items/{productId}.
func ParseCartPath(path string) (CartPath, error) {
	parts := split(path)

	params := CartPath{}

	if len(parts) < 2 || parts[0] != "carts" {
		return params, errors.New("invalid path, expected /carts/{username}")
	}
	params.Username = parts[1]

	switch len(parts) {
	case 2:
		return params, nil
	case 3:
		switch parts[2] {
		case "items":
			params.Items = true
		case "details":
			params.Details = true
		default:
			return params, errors.New("invalid path, expected /carts/{username}/items")
		}
		return params, nil
	case 4:
		if parts[2] != "items" {
			return params, errors.New("invalid path, expected /carts/{username}/items/{productId}")
		}
		productId, err := strconv.Atoi(parts[3])
		if err != nil {
			return params, errors.New("invalid productId, must be int")
		}
		params.Items = true
		params.ProductId = productId
		params.HasProduct = true
		return params, nil
	default:
		return params, errors.New("wrong url format")
	}
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
