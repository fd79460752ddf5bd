package http

import (
	"net/http"
	"strconv"

	"squadhub-backend/internal/service"
)

type notificationHandler struct {
	notifications service.NotificationService
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return fallback
	}
	return int32(v)
}

func (h *notificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	notifications, total, err := h.notifications.GetNotifications(r.Context(), userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func (h *notificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	noteID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid notification id"})
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), userID, noteID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "notification marked as read")
}
