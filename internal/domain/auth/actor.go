// Package auth defines the per-request authorization context. An API key is
// resolved exactly once, at the HTTP boundary, into an Actor carrying the
// caller's identity and capability set; domain operations receive the Actor
// explicitly instead of consulting any request-global state.
package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// Role is the coarse permission tier assigned to a user.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Capability names a single permitted action class.
type Capability string

const (
	// CapManageOrders allows approving orders and driving status transitions.
	CapManageOrders Capability = "orders:manage"
	// CapViewAllOrders allows listing and reading orders of any user.
	CapViewAllOrders Capability = "orders:view-all"
	// CapSendNotifications allows pushing notifications to arbitrary users.
	CapSendNotifications Capability = "notifications:send"
)

var roleCapabilities = map[Role][]Capability{
	RoleUser:       nil,
	RoleAdmin:      {CapManageOrders, CapViewAllOrders},
	RoleSuperAdmin: {CapManageOrders, CapViewAllOrders, CapSendNotifications},
}

// Actor identifies an authenticated caller and its capabilities.
type Actor struct {
	UserID string
	Role   Role
}

// Can reports whether the actor's role grants the given capability.
func (a Actor) Can(c Capability) bool {
	for _, cap := range roleCapabilities[a.Role] {
		if cap == c {
			return true
		}
	}
	return false
}

// ErrUnauthorized is returned when no valid API key accompanies a request.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the actor lacks a required capability.
var ErrForbidden = errors.New("forbidden")

// APIKeyInfo holds the identity data resolved from a validated API key.
type APIKeyInfo struct {
	ID      string
	KeyHash string
	UserID  string
	Role    Role
	Name    string
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}

type actorKey struct{}

// WithActor stores the actor on the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom extracts the actor resolved by the auth middleware.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
