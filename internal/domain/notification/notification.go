// Package notification models durable user notifications. Creation is the
// delivery: there is no push channel, users poll their list. A notification
// written as part of a larger transaction shares that transaction's fate.
package notification

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a notification id does not exist or belongs
// to another user.
var ErrNotFound = errors.New("notification not found")

// Notification is an unread-by-default message addressed to one user.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// Repository defines persistence operations for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}
