package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRateLimitRepository is a mock type for the RateLimitRepository type
type MockRateLimitRepository struct {
	mock.Mock
}

func (_m *MockRateLimitRepository) CheckRateLimit(ctx context.Context, action, subject string) (bool, int, int, error) {
	ret := _m.Called(ctx, action, subject)

	return ret.Bool(0), ret.Int(1), ret.Int(2), ret.Error(3)
}

// NewMockRateLimitRepository creates a new instance of MockRateLimitRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockRateLimitRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRateLimitRepository {
	m := &MockRateLimitRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
