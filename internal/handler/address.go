package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sahil13082003/ecommerce-api/internal/domain/address"
)

type addressRequest struct {
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Zipcode   string `json:"zipcode"`
	IsDefault bool   `json:"is_default"`
}

type addressResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Zipcode   string `json:"zipcode"`
	IsDefault bool   `json:"is_default"`
}

func toAddressResponse(a address.Address) addressResponse {
	return addressResponse{
		ID:        a.ID,
		Name:      a.Name,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Country:   a.Country,
		Zipcode:   a.Zipcode,
		IsDefault: a.IsDefault,
	}
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	a, _ := actor(r)
	addrs, err := h.addresses.ListByUser(r.Context(), a.UserID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := make([]addressResponse, len(addrs))
	for i, addr := range addrs {
		resp[i] = toAddressResponse(addr)
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	a, _ := actor(r)
	addr := &address.Address{
		ID:        uuid.NewString(),
		UserID:    a.UserID,
		Name:      req.Name,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		Zipcode:   req.Zipcode,
		IsDefault: req.IsDefault,
	}
	if err := h.addresses.Create(r.Context(), addr); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, toAddressResponse(*addr))
}
