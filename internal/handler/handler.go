// Package handler exposes the domain over HTTP. Routing is chi; request and
// response bodies go through goccy/go-json; domain errors are mapped onto a
// {code, message} envelope.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/sahil13082003/ecommerce-api/internal/domain/address"
	"github.com/sahil13082003/ecommerce-api/internal/domain/auth"
	"github.com/sahil13082003/ecommerce-api/internal/domain/cart"
	"github.com/sahil13082003/ecommerce-api/internal/domain/catalog"
	"github.com/sahil13082003/ecommerce-api/internal/domain/coupon"
	"github.com/sahil13082003/ecommerce-api/internal/domain/notification"
	"github.com/sahil13082003/ecommerce-api/internal/domain/order"
)

// Handler carries the domain dependencies for all HTTP endpoints.
type Handler struct {
	catalog       catalog.Repository
	carts         cart.Repository
	addresses     address.Repository
	coupons       *coupon.Evaluator
	orders        *order.Service
	notifications notification.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cat catalog.Repository,
	carts cart.Repository,
	addresses address.Repository,
	coupons *coupon.Evaluator,
	orders *order.Service,
	notifications notification.Repository,
) *Handler {
	return &Handler{
		catalog:       cat,
		carts:         carts,
		addresses:     addresses,
		coupons:       coupons,
		orders:        orders,
		notifications: notifications,
	}
}

// Routes mounts the API under the given router. The catalog is public;
// everything else requires an authenticated actor, and order administration
// additionally requires the matching capability.
func (h *Handler) Routes(r chi.Router, authn *Authenticator) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(authn.RequireAPIKey)

		r.Get("/cart", h.getCart)
		r.Post("/cart/items", h.addCartLine)
		r.Put("/cart/items/{id}", h.updateCartLine)
		r.Delete("/cart/items/{id}", h.removeCartLine)

		r.Get("/addresses", h.listAddresses)
		r.Post("/addresses", h.createAddress)

		r.Get("/coupons/validate", h.validateCoupon)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)

		r.Get("/notifications", h.listNotifications)
		r.Post("/notifications/{id}/read", h.markNotificationRead)

		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(auth.CapManageOrders))
			r.Post("/orders/{id}/approve", h.approveOrder)
			r.Put("/orders/{id}/status", h.updateOrderStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(auth.CapSendNotifications))
			r.Post("/notifications", h.sendNotification)
		})
	})
}
