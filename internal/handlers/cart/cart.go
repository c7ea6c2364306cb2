package carthandler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"shopapi/internal/handlers/httperr"
	"shopapi/internal/models"
	"shopapi/pkg/lib/logger/sl"
	"shopapi/pkg/lib/urlparser"

	"github.com/go-playground/validator/v10"
)

type CartService interface {
	GetCart(ctx context.Context, username string) ([]models.Product, error)
	LoadCart(ctx context.Context, username string) (models.Cart, error)
	AddToCart(ctx context.Context, username string, productId int) error
	RemoveFromCart(ctx context.Context, username string, productId int) error
	DeleteCart(ctx context.Context, username string) error
}

type AddToCartRequest struct {
	ProductId int `json:"product_id" validate:"required,gt=0"`
}

type Handler struct {
	log      *slog.Logger
	service  CartService
	validate *validator.Validate
}

func New(log *slog.Logger, service CartService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// GET /carts/{username}
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.GetCart"
	log := h.log.With("op", op)

	params, ok := parsePath(w, r, log)
	if !ok {
		return
	}

	products, err := h.service.GetCart(r.Context(), params.Username)
	if err != nil {
		httperr.Write(w, r, log, "Failed to get cart", err)
		return
	}

	writeJSON(w, log, http.StatusOK, products)
}

// GET /carts/{username}/details
func (h *Handler) LoadCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.LoadCart"
	log := h.log.With("op", op)

	params, ok := parsePath(w, r, log)
	if !ok {
		return
	}

	cart, err := h.service.LoadCart(r.Context(), params.Username)
	if err != nil {
		httperr.Write(w, r, log, "Failed to load cart", err)
		return
	}

	writeJSON(w, log, http.StatusOK, cart)
}

// POST /carts/{username}/items
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.AddToCart"
	log := h.log.With("op", op)

	params, ok := parsePath(w, r, log)
	if !ok {
		return
	}

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Cannot read request body", sl.Err(err))
		http.Error(w, "Cannot read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req AddToCartRequest
	if err := json.Unmarshal(requestBody, &req); err != nil {
		log.Error("Cannot unmarshal request body", sl.Err(err))
		http.Error(w, "Cannot unmarshal request body", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("Failed to validate", sl.Err(err))
		http.Error(w, "Failed to validate", http.StatusBadRequest)
		return
	}

	if err := h.service.AddToCart(r.Context(), params.Username, req.ProductId); err != nil {
		httperr.Write(w, r, log, "Failed to add product to cart", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /carts/{username}/items/{productId}
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.RemoveFromCart"
	log := h.log.With("op", op)

	params, ok := parsePath(w, r, log)
	if !ok {
		return
	}
	if !params.HasProduct {
		log.Error("ProductId is required", "path", r.URL.Path)
		http.Error(w, "ProductId is required", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveFromCart(r.Context(), params.Username, params.ProductId); err != nil {
		httperr.Write(w, r, log, "Failed to remove product from cart", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /carts/{username}
func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.DeleteCart"
	log := h.log.With("op", op)

	params, ok := parsePath(w, r, log)
	if !ok {
		return
	}

	if err := h.service.DeleteCart(r.Context(), params.Username); err != nil {
		httperr.Write(w, r, log, "Failed to delete cart", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parsePath(w http.ResponseWriter, r *http.Request, log *slog.Logger) (urlparser.CartPath, bool) {
	params, err := urlparser.ParseCartPath(r.URL.Path)
	if err != nil {
		log.Error("Invalid cart path", sl.Err(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return params, false
	}
	return params, true
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to responde user", sl.Err(err))
	}
}
