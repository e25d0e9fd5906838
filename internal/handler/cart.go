package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/sahil13082003/ecommerce-api/internal/domain/cart"
)

type cartLineResponse struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type cartResponse struct {
	ID    string             `json:"id"`
	Lines []cartLineResponse `json:"lines"`
}

type addCartLineRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	a, _ := actor(r)
	c, err := h.carts.GetByUser(r.Context(), a.UserID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := cartResponse{ID: c.ID, Lines: make([]cartLineResponse, len(c.Lines))}
	for i, l := range c.Lines {
		resp.Lines[i] = cartLineResponse{ID: l.ID, VariantID: l.VariantID, Quantity: l.Quantity}
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) addCartLine(w http.ResponseWriter, r *http.Request) {
	var req addCartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	a, _ := actor(r)
	l, err := h.carts.AddLine(r.Context(), a.UserID, req.VariantID, req.Quantity)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, cartLineResponse{ID: l.ID, VariantID: l.VariantID, Quantity: l.Quantity})
}

func (h *Handler) updateCartLine(w http.ResponseWriter, r *http.Request) {
	var req updateCartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	a, _ := actor(r)
	l, err := h.carts.UpdateLine(r.Context(), a.UserID, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, cartLineResponse{ID: l.ID, VariantID: l.VariantID, Quantity: l.Quantity})
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	a, _ := actor(r)
	if err := h.carts.RemoveLine(r.Context(), a.UserID, chi.URLParam(r, "id")); err != nil {
		h.respondCartError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (h *Handler) respondCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	default:
		respondInternal(w, r, err)
	}
}
