package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	repository "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/repositories"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/pkg/sendGrid"
	"github.com/google/uuid"
)

const defaultFeedLimit = 50

type NotificationService interface {
	Notify(ctx context.Context, notification *models.Notification) error
	ListNotifications(ctx context.Context, viewer models.Viewer, limit int) ([]*models.Notification, error)
	RejectionReasons(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	users        repository.UserRepository
	emailService sendGrid.EmailService
}

// NewNotificationService wires the in-app feed. emailService may be nil, in
// which case no emails go out.
func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, emailService sendGrid.EmailService) NotificationService {
	return &notificationService{repo: repo, users: users, emailService: emailService}
}

// Notify records the feed entry, then mails the recipient. Email is best-effort.
func (n *notificationService) Notify(ctx context.Context, notification *models.Notification) error {
	logger := middleware.LoggerFromContext(ctx)

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return errors.DatabaseError("Failed to record notification").WithError(err)
	}

	if n.emailService == nil {
		return nil
	}

	user, err := n.users.GetUserByID(ctx, notification.RecipientID)
	if err != nil {
		logger.Warn("Skipping notification email, recipient lookup failed",
			slog.String("recipientId", notification.RecipientID.String()),
			slog.String("error", err.Error()),
		)

		return nil
	}

	email := &models.EmailNotificationRequest{
		To:      user.Email,
		Subject: notification.Title,
		Content: notification.Message,
	}

	if err := n.emailService.Send(ctx, email); err != nil {
		logger.Warn("Notification email failed",
			slog.String("notificationId", notification.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func (n *notificationService) ListNotifications(ctx context.Context, viewer models.Viewer, limit int) ([]*models.Notification, error) {
	if limit < 1 || limit > defaultFeedLimit {
		limit = defaultFeedLimit
	}

	notifications, err := n.repo.ListByRecipient(ctx, viewer.UserID, limit)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list notifications").WithError(err)
	}

	return notifications, nil
}

// RejectionReasons recovers rejection reasons from the feed, keyed by request id.
func (n *notificationService) RejectionReasons(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	reasons := make(map[uuid.UUID]string, len(requestIDs))
	if len(requestIDs) == 0 {
		return reasons, nil
	}

	notifications, err := n.repo.ListByReferences(ctx, requestIDs, models.NotificationTypeRequestRejected)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load rejection notifications").WithError(err)
	}

	for _, notification := range notifications {
		if notification.ReferenceID == nil {
			continue
		}

		if _, seen := reasons[*notification.ReferenceID]; seen {
			continue
		}

		if reason := models.RejectionReasonFromMessage(notification.Message); reason != "" {
			reasons[*notification.ReferenceID] = reason
		}
	}

	return reasons, nil
}
