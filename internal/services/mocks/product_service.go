package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock type for the ProductService type
type MockProductService struct {
	mock.Mock
}

func (_m *MockProductService) CreateProduct(ctx context.Context, viewer models.Viewer, req *models.CreateProductRequest) (*models.Product, error) {
	ret := _m.Called(ctx, viewer, req)

	return productResult(ret)
}

func (_m *MockProductService) CreateClientProduct(ctx context.Context, viewer models.Viewer, req *models.CreateClientProductRequest) (*models.Product, error) {
	ret := _m.Called(ctx, viewer, req)

	return productResult(ret)
}

func (_m *MockProductService) GetProduct(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.InventoryItem, error) {
	ret := _m.Called(ctx, viewer, id)

	var r0 *models.InventoryItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.InventoryItem)
	}

	return r0, ret.Error(1)
}

func (_m *MockProductService) UpdateInventory(ctx context.Context, viewer models.Viewer, id uuid.UUID, req *models.UpdateInventoryRequest) (*models.Product, error) {
	ret := _m.Called(ctx, viewer, id, req)

	return productResult(ret)
}

func (_m *MockProductService) UpdateClientInventory(ctx context.Context, viewer models.Viewer, id uuid.UUID, req *models.UpdateClientInventoryRequest) (*models.Product, error) {
	ret := _m.Called(ctx, viewer, id, req)

	return productResult(ret)
}

func (_m *MockProductService) AdjustStock(ctx context.Context, viewer models.Viewer, id uuid.UUID, delta int64) (*models.Product, error) {
	ret := _m.Called(ctx, viewer, id, delta)

	return productResult(ret)
}

func productResult(ret mock.Arguments) (*models.Product, error) {
	var r0 *models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Product)
	}

	return r0, ret.Error(1)
}

// NewMockProductService creates a new instance of MockProductService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockProductService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductService {
	m := &MockProductService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
