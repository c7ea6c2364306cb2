package routes

import (
	"net/http"

	carthandler "shopapi/internal/handlers/cart"
	producthandler "shopapi/internal/handlers/product"
	"shopapi/pkg/lib/urlparser"
)

type Routes struct {
	productHandler *producthandler.Handler
	cartHandler    *carthandler.Handler
}

func New(productHandler *producthandler.Handler, cartHandler *carthandler.Handler) *Routes {
	return &Routes{
		productHandler: productHandler,
		cartHandler:    cartHandler,
	}
}

func (r *Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("/products", r.productPathParser)
	mux.HandleFunc("/products/", r.productPathParser)
	mux.HandleFunc("/carts/", r.cartPathParser)
}

func (r *Routes) productPathParser(ww http.ResponseWriter, req *http.Request) {
	params, err := urlparser.ParseProductPath(req.URL.Path)
	if err != nil {
		http.NotFound(ww, req)
		return
	}

	switch {
	case !params.HasId && req.Method == http.MethodGet:
		// GET /products
		r.productHandler.ListProducts(ww, req)
	case !params.HasId && req.Method == http.MethodPost:
		// POST /products
		r.productHandler.AddProduct(ww, req)
	case params.HasId && !params.Qty && req.Method == http.MethodGet:
		// GET /products/{productId}
		r.productHandler.GetProduct(ww, req)
	case params.Qty && req.Method == http.MethodPut:
		// PUT /products/{productId}/qty
		r.productHandler.UpdateQty(ww, req)
	default:
		http.NotFound(ww, req)
	}
}

func (r *Routes) cartPathParser(ww http.ResponseWriter, req *http.Request) {
	params, err := urlparser.ParseCartPath(req.URL.Path)
	if err != nil {
		http.NotFound(ww, req)
		return
	}

	switch {
	case !params.Items && !params.Details && req.Method == http.MethodGet:
		// GET /carts/{username}
		r.cartHandler.GetCart(ww, req)
	case !params.Items && !params.Details && req.Method == http.MethodDelete:
		// DELETE /carts/{username}
		r.cartHandler.DeleteCart(ww, req)
	case params.Details && req.Method == http.MethodGet:
		// GET /carts/{username}/details
		r.cartHandler.LoadCart(ww, req)
	case params.Items && !params.HasProduct && req.Method == http.MethodPost:
		// POST /carts/{username}/items
		r.cartHandler.AddToCart(ww, req)
	case params.HasProduct && req.Method == http.MethodDelete:
		// DELETE /carts/{username}/items/{productId}
		r.cartHandler.RemoveFromCart(ww, req)
	default:
		http.NotFound(ww, req)
	}
}
