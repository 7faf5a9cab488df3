package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository is a mock type for the NotificationRepository type
type MockNotificationRepository struct {
	mock.Mock
}

func (_m *MockNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	ret := _m.Called(ctx, notification)

	if rf, ok := ret.Get(0).(func(context.Context, *models.Notification) error); ok {
		return rf(ctx, notification)
	}

	return ret.Error(0)
}

func (_m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*models.Notification, error) {
	ret := _m.Called(ctx, recipientID, limit)

	return notificationsResult(ret)
}

func (_m *MockNotificationRepository) ListByReferences(ctx context.Context, referenceIDs []uuid.UUID, notificationType models.NotificationType) ([]*models.Notification, error) {
	ret := _m.Called(ctx, referenceIDs, notificationType)

	return notificationsResult(ret)
}

func notificationsResult(ret mock.Arguments) ([]*models.Notification, error) {
	var r0 []*models.Notification
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Notification)
	}

	return r0, ret.Error(1)
}

// NewMockNotificationRepository creates a new instance of MockNotificationRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockNotificationRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationRepository {
	m := &MockNotificationRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
