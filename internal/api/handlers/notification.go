package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	service "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/services"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils/response"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications godoc
//	@Summary	List the caller's notifications, newest first
//	@Tags		Notifications
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum entries (default and cap: 50)"
//	@Success	200		{array}		models.Notification
//	@Failure	401		{object}	response.ErrorResponse
//	@Failure	500		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/notifications [get]
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		notifications, err := h.notificationService.ListNotifications(r.Context(), viewer, limit)
		if err != nil {
			logger.Error("Failed to list notifications", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, notifications)
	}
}
