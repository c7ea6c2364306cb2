package producthandler

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

type ProductService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (models.Product, error)
	AddProduct(ctx context.Context, product models.NewProduct) (models.Product, error)
	UpdateQty(ctx context.Context, id int, qty int) error
}

type UpdateQtyRequest struct {
	Qty *int `json:"qty" validate:"required"`
}

type Handler struct {
	log      *slog.Logger
	service  ProductService
	validate *validator.Validate
}

func New(log *slog.Logger, service ProductService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// GET /products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.ListProducts"
	log := h.log.With("op", op)

	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httperr.Write(w, r, log, "Failed to list products", err)
		return
	}

	writeJSON(w, log, http.StatusOK, products)
}

// POST /products
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.AddProduct"
	log := h.log.With("op", op)

	var product models.NewProduct
	if !h.decode(w, r, log, &product) {
		return
	}

	created, err := h.service.AddProduct(r.Context(), product)
	if err != nil {
		httperr.Write(w, r, log, "Failed to add product", err)
		return
	}

	writeJSON(w, log, http.StatusCreated, created)
}

// GET /products/{productId}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.GetProduct"
	log := h.log.With("op", op)

	params, err := urlparser.ParseProductPath(r.URL.Path)
	if err != nil || !params.HasId {
		log.Error("ProductId must be int", "path", r.URL.Path)
		http.Error(w, "ProductId must be int", http.StatusBadRequest)
		return
	}

	product, err := h.service.GetProduct(r.Context(), params.ProductId)
	if err != nil {
		httperr.Write(w, r, log, "Failed to get product", err)
		return
	}

	writeJSON(w, log, http.StatusOK, product)
}

// PUT /products/{productId}/qty
func (h *Handler) UpdateQty(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.UpdateQty"
	log := h.log.With("op", op)

	params, err := urlparser.ParseProductPath(r.URL.Path)
	if err != nil || !params.HasId {
		log.Error("ProductId must be int", "path", r.URL.Path)
		http.Error(w, "ProductId must be int", http.StatusBadRequest)
		return
	}

	var req UpdateQtyRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if err := h.service.UpdateQty(r.Context(), params.ProductId, *req.Qty); err != nil {
		httperr.Write(w, r, log, "Failed to update quantity", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Cannot read request body", sl.Err(err))
		http.Error(w, "Cannot read request body", http.StatusBadRequest)
		return false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(requestBody, dst); err != nil {
		log.Error("Cannot unmarshal request body", sl.Err(err))
		http.Error(w, "Cannot unmarshal request body", http.StatusBadRequest)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		log.Error("Failed to validate", sl.Err(err))
		http.Error(w, "Failed to validate", http.StatusBadRequest)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to responde user", sl.Err(err))
	}
}
