package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sahil13082003/ecommerce-api/internal/domain/catalog"
)

type variantResponse struct {
	ID    string          `json:"id"`
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func toVariantResponse(v catalog.Variant) variantResponse {
	return variantResponse{
		ID:    v.ID,
		SKU:   v.SKU,
		Name:  v.Name,
		Price: v.Price,
		Stock: v.Stock,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	variants, err := h.catalog.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := make([]variantResponse, len(variants))
	for i, v := range variants {
		resp[i] = toVariantResponse(v)
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	v, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "product variant not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toVariantResponse(*v))
}
