package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const defaultNotificationLimit = 50

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*models.Notification, error)
	ListByReferences(ctx context.Context, referenceIDs []uuid.UUID, notificationType models.NotificationType) ([]*models.Notification, error)
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (recipient_id, type, title, message, reference_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(dbCtx, query, notification.RecipientID, notification.Type, notification.Title, notification.Message, notification.ReferenceID).
		Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	query := `
		SELECT id, recipient_id, type, title, message, reference_id, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	return r.list(ctx, query, recipientID, limit)
}

// ListByReferences returns notifications of one type attached to any of the
// given references, newest first.
func (r *notificationRepository) ListByReferences(ctx context.Context, referenceIDs []uuid.UUID, notificationType models.NotificationType) ([]*models.Notification, error) {
	if len(referenceIDs) == 0 {
		return []*models.Notification{}, nil
	}

	ids := make([]string, len(referenceIDs))
	for i, id := range referenceIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id, recipient_id, type, title, message, reference_id, read, created_at
		FROM notifications
		WHERE reference_id = ANY($1::uuid[]) AND type = $2
		ORDER BY created_at DESC`

	return r.list(ctx, query, pq.Array(ids), notificationType)
}

func (r *notificationRepository) list(ctx context.Context, query string, args ...any) ([]*models.Notification, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}

	for rows.Next() {
		var (
			n           models.Notification
			referenceID uuid.NullUUID
		)

		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &referenceID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notifications: %w", err)
		}

		if referenceID.Valid {
			n.ReferenceID = &referenceID.UUID
		}

		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return notifications, nil
}
