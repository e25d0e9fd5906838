package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sahil13082003/ecommerce-api/internal/domain/address"
	"github.com/sahil13082003/ecommerce-api/internal/domain/catalog"
	"github.com/sahil13082003/ecommerce-api/internal/domain/order"
)

type createOrderRequest struct {
	AddressID  string `json:"address_id"`
	CouponCode string `json:"coupon_code,omitempty"`
}

type updateOrderStatusRequest struct {
	OrderStatus string `json:"order_status"`
}

type orderLineResponse struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	AddressID     string              `json:"address_id,omitempty"`
	CouponCode    string              `json:"coupon_code,omitempty"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Discount      decimal.Decimal     `json:"discount"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	PaymentStatus string              `json:"payment_status"`
	OrderStatus   string              `json:"order_status"`
	ApprovedBy    string              `json:"approved_by,omitempty"`
	Lines         []orderLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		AddressID:     o.AddressID,
		CouponCode:    o.CouponCode,
		TotalAmount:   o.Total,
		Discount:      o.Discount,
		GrandTotal:    o.GrandTotal,
		PaymentStatus: string(o.PaymentStatus),
		OrderStatus:   string(o.Status),
		ApprovedBy:    o.ApprovedBy,
		CreatedAt:     o.CreatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, orderLineResponse{
			ID:        l.ID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return resp
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	a, _ := actor(r)
	o, err := h.orders.CreateOrder(r.Context(), a, req.AddressID, req.CouponCode)
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	a, _ := actor(r)
	orders, err := h.orders.List(r.Context(), a)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i])
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	a, _ := actor(r)
	o, err := h.orders.Get(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) approveOrder(w http.ResponseWriter, r *http.Request) {
	a, _ := actor(r)
	o, err := h.orders.Approve(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.SetStatus(r.Context(), chi.URLParam(r, "id"), order.Status(req.OrderStatus))
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) respondOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ise *catalog.InsufficientStockError
		ite *order.InvalidTransitionError
	)
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, address.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.As(err, &ise):
		respondError(w, r, http.StatusConflict, ise.Error())
	case errors.Is(err, order.ErrAlreadyApproved):
		respondError(w, r, http.StatusConflict, err.Error())
	case errors.As(err, &ite):
		respondError(w, r, http.StatusUnprocessableEntity, ite.Error())
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		respondInternal(w, r, err)
	}
}
