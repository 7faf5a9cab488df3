package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockNotificationService is a mock type for the NotificationService type
type MockNotificationService struct {
	mock.Mock
}

func (_m *MockNotificationService) Notify(ctx context.Context, notification *models.Notification) error {
	ret := _m.Called(ctx, notification)

	return ret.Error(0)
}

func (_m *MockNotificationService) ListNotifications(ctx context.Context, viewer models.Viewer, limit int) ([]*models.Notification, error) {
	ret := _m.Called(ctx, viewer, limit)

	var r0 []*models.Notification
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Notification)
	}

	return r0, ret.Error(1)
}

func (_m *MockNotificationService) RejectionReasons(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	ret := _m.Called(ctx, requestIDs)

	var r0 map[uuid.UUID]string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[uuid.UUID]string)
	}

	return r0, ret.Error(1)
}

// NewMockNotificationService creates a new instance of MockNotificationService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockNotificationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationService {
	m := &MockNotificationService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
