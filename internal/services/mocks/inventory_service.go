package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/listing"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockInventoryService is a mock type for the InventoryService type
type MockInventoryService struct {
	mock.Mock
}

func (_m *MockInventoryService) Reconcile(ctx context.Context, viewer models.Viewer) (*models.InventoryView, error) {
	ret := _m.Called(ctx, viewer)

	var r0 *models.InventoryView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.InventoryView)
	}

	return r0, ret.Error(1)
}

func (_m *MockInventoryService) ListInventory(ctx context.Context, viewer models.Viewer, filter listing.Filter, page, pageSize int) (*models.InventoryPage, error) {
	ret := _m.Called(ctx, viewer, filter, page, pageSize)

	var r0 *models.InventoryPage
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.InventoryPage)
	}

	return r0, ret.Error(1)
}

func (_m *MockInventoryService) LastUpdate(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

// NewMockInventoryService creates a new instance of MockInventoryService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockInventoryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockInventoryService {
	m := &MockInventoryService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
