package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/sahil13082003/ecommerce-api/internal/domain/notification"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type sendNotificationRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	a, _ := actor(r)
	ns, err := h.notifications.ListByUser(r.Context(), a.UserID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := make([]notificationResponse, len(ns))
	for i, n := range ns {
		resp[i] = notificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	a, _ := actor(r)
	err := h.notifications.MarkRead(r.Context(), a.UserID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

func (h *Handler) sendNotification(w http.ResponseWriter, r *http.Request) {
	var req sendNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.Title == "" {
		respondError(w, r, http.StatusBadRequest, "user_id and title are required")
		return
	}

	n := &notification.Notification{
		ID:      uuid.NewString(),
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
	}
	if err := h.notifications.Create(r.Context(), n); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, notificationResponse{
		ID:      n.ID,
		Title:   n.Title,
		Message: n.Message,
	})
}
