package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sahil13082003/ecommerce-api/internal/domain/coupon"
	"github.com/sahil13082003/ecommerce-api/internal/domain/order"
)

type couponResponse struct {
	Code      string          `json:"code"`
	Type      string          `json:"discount_type"`
	Value     decimal.Decimal `json:"value"`
	MinAmount decimal.Decimal `json:"min_amount"`
	ExpiresAt time.Time       `json:"expires_at"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// validateCoupon is the strict evaluator path: unlike checkout, it surfaces
// unknown, expired, and below-minimum coupons to the caller. The subtotal is
// computed from the caller's current cart at current variant prices.
func (h *Handler) validateCoupon(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, r, http.StatusBadRequest, "code query parameter is required")
		return
	}

	subtotal, err := h.cartSubtotal(r)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	c, discount, err := h.coupons.Validate(r.Context(), code, subtotal)
	if err != nil {
		switch {
		case errors.Is(err, coupon.ErrNotFound), errors.Is(err, coupon.ErrExpired):
			respondError(w, r, http.StatusNotFound, "invalid or expired coupon")
		case errors.Is(err, coupon.ErrBelowMinimum):
			respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			respondInternal(w, r, err)
		}
		return
	}

	respondJSON(w, r, http.StatusOK, couponResponse{
		Code:      c.Code,
		Type:      string(c.Type),
		Value:     c.Value,
		MinAmount: c.MinAmount,
		ExpiresAt: c.ExpiresAt,
		Discount:  discount,
		Subtotal:  subtotal,
	})
}

// cartSubtotal prices the caller's cart lines at current variant prices.
func (h *Handler) cartSubtotal(r *http.Request) (decimal.Decimal, error) {
	a, _ := actor(r)
	c, err := h.carts.GetByUser(r.Context(), a.UserID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(c.Lines) == 0 {
		return decimal.Zero, nil
	}

	ids := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.VariantID
	}
	variants, err := h.catalog.GetByIDs(r.Context(), ids)
	if err != nil {
		return decimal.Zero, err
	}
	priceByID := make(map[string]decimal.Decimal, len(variants))
	for _, v := range variants {
		priceByID[v.ID] = v.Price
	}

	lines := make([]order.Line, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = order.Line{Quantity: l.Quantity, UnitPrice: priceByID[l.VariantID]}
	}
	return order.Subtotal(lines), nil
}
