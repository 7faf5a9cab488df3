package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock type for the Publisher type
type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	ret := _m.Called(ctx, event)

	return ret.Error(0)
}

// MockMarker is a mock type for the Marker type
type MockMarker struct {
	mock.Mock
}

func (_m *MockMarker) LastUpdate(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

func (_m *MockMarker) Version(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

// NewMockPublisher creates a new instance of MockPublisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPublisher {
	m := &MockPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// NewMockMarker creates a new instance of MockMarker.
func NewMockMarker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMarker {
	m := &MockMarker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
