package service_test

import (
	"errors"
	"testing"

	appErrors "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	repoMocks "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/services"
	emailMocks "github.com/aaravmahajanofficial/dealer-incentive-platform/pkg/sendGrid/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupNotificationService(t *testing.T) (service.NotificationService, *repoMocks.MockNotificationRepository, *repoMocks.MockUserRepository, *emailMocks.MockEmailService) {
	t.Helper()

	repo := repoMocks.NewMockNotificationRepository(t)
	users := repoMocks.NewMockUserRepository(t)
	email := emailMocks.NewMockEmailService(t)

	return service.NewNotificationService(repo, users, email), repo, users, email
}

func TestNotificationService_Notify(t *testing.T) {
	recipient := &models.User{ID: uuid.New(), Email: "dana@example.com"}
	ref := uuid.New()

	newNotification := func() *models.Notification {
		return &models.Notification{
			RecipientID: recipient.ID,
			Type:        models.NotificationTypeRequestRejected,
			Title:       "Purchase request rejected",
			Message:     "Your purchase request for Widget A was rejected: Budget exceeded",
			ReferenceID: &ref,
		}
	}

	t.Run("Success - Feed entry and email", func(t *testing.T) {
		// Arrange
		svc, repo, users, email := setupNotificationService(t)
		n := newNotification()

		repo.On("CreateNotification", mock.Anything, n).Return(nil).Once()
		users.On("GetUserByID", mock.Anything, recipient.ID).Return(recipient, nil).Once()
		email.On("Send", mock.Anything, &models.EmailNotificationRequest{
			To:      "dana@example.com",
			Subject: "Purchase request rejected",
			Content: n.Message,
		}).Return(nil).Once()

		// Act
		err := svc.Notify(t.Context(), n)

		// Assert
		require.NoError(t, err)
	})

	t.Run("Email failure is best-effort", func(t *testing.T) {
		svc, repo, users, email := setupNotificationService(t)
		n := newNotification()

		repo.On("CreateNotification", mock.Anything, n).Return(nil).Once()
		users.On("GetUserByID", mock.Anything, recipient.ID).Return(recipient, nil).Once()
		email.On("Send", mock.Anything, mock.Anything).Return(errors.New("sendgrid 503")).Once()

		assert.NoError(t, svc.Notify(t.Context(), n))
	})

	t.Run("Unknown recipient skips the email", func(t *testing.T) {
		svc, repo, users, email := setupNotificationService(t)
		n := newNotification()

		repo.On("CreateNotification", mock.Anything, n).Return(nil).Once()
		users.On("GetUserByID", mock.Anything, recipient.ID).Return(nil, errors.New("user not found")).Once()

		assert.NoError(t, svc.Notify(t.Context(), n))
		email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Feed write fails", func(t *testing.T) {
		svc, repo, _, email := setupNotificationService(t)
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		err := svc.Notify(t.Context(), newNotification())

		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
		email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("No email service configured", func(t *testing.T) {
		repo := repoMocks.NewMockNotificationRepository(t)
		svc := service.NewNotificationService(repo, nil, nil)
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil).Once()

		assert.NoError(t, svc.Notify(t.Context(), newNotification()))
	})
}

func TestNotificationService_ListNotifications(t *testing.T) {
	viewer := models.Viewer{UserID: uuid.New(), Role: models.RoleClient}

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"Requested limit", 10, 10},
		{"Zero falls back to default", 0, 50},
		{"Too large is capped", 500, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := setupNotificationService(t)
			feed := []*models.Notification{{ID: uuid.New(), RecipientID: viewer.UserID}}
			repo.On("ListByRecipient", mock.Anything, viewer.UserID, tt.wantLimit).Return(feed, nil).Once()

			got, err := svc.ListNotifications(t.Context(), viewer, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, feed, got)
		})
	}

	t.Run("Failure - Database error", func(t *testing.T) {
		svc, repo, _, _ := setupNotificationService(t)
		repo.On("ListByRecipient", mock.Anything, viewer.UserID, 50).Return(nil, errors.New("boom")).Once()

		_, err := svc.ListNotifications(t.Context(), viewer, 0)

		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestNotificationService_RejectionReasons(t *testing.T) {
	first, second, silent := uuid.New(), uuid.New(), uuid.New()

	t.Run("Newest entry per request wins", func(t *testing.T) {
		// Arrange
		svc, repo, _, _ := setupNotificationService(t)
		ids := []uuid.UUID{first, second, silent}

		repo.On("ListByReferences", mock.Anything, ids, models.NotificationTypeRequestRejected).Return([]*models.Notification{
			{ReferenceID: &first, Message: "Your purchase request for Widget A was rejected: Budget exceeded"},
			{ReferenceID: &first, Message: "Your purchase request for Widget A was rejected: older reason"},
			{ReferenceID: &second, Message: "Declined: duplicate order"},
			{ReferenceID: &silent, Message: "no reason here"},
			{ReferenceID: nil, Message: "orphan: ignored"},
		}, nil).Once()

		// Act
		reasons, err := svc.RejectionReasons(t.Context(), ids)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]string{first: "Budget exceeded", second: "duplicate order"}, reasons)
	})

	t.Run("No ids skips the query", func(t *testing.T) {
		svc, _, _, _ := setupNotificationService(t)

		reasons, err := svc.RejectionReasons(t.Context(), nil)

		require.NoError(t, err)
		assert.Empty(t, reasons)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		svc, repo, _, _ := setupNotificationService(t)
		repo.On("ListByReferences", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := svc.RejectionReasons(t.Context(), []uuid.UUID{first})

		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}
