package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock type for the ProductRepository type
type MockProductRepository struct {
	mock.Mock
}

func (_m *MockProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	ret := _m.Called(ctx, product)

	if rf, ok := ret.Get(0).(func(context.Context, *models.Product) error); ok {
		return rf(ctx, product)
	}

	return ret.Error(0)
}

func (_m *MockProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	ret := _m.Called(ctx, id)

	return productResult(ret)
}

func (_m *MockProductRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Product, error) {
	ret := _m.Called(ctx, creatorID)

	return productsResult(ret)
}

func (_m *MockProductRepository) ListClientUploaded(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error) {
	ret := _m.Called(ctx, clientID)

	return productsResult(ret)
}

func (_m *MockProductRepository) ListTransferred(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error) {
	ret := _m.Called(ctx, clientID)

	return productsResult(ret)
}

func (_m *MockProductRepository) ListActiveCatalog(ctx context.Context, organizationID uuid.UUID) ([]*models.Product, error) {
	ret := _m.Called(ctx, organizationID)

	return productsResult(ret)
}

func (_m *MockProductRepository) UpdateStockLevels(ctx context.Context, product *models.Product) error {
	ret := _m.Called(ctx, product)

	return ret.Error(0)
}

func (_m *MockProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (*models.Product, error) {
	ret := _m.Called(ctx, id, delta)

	return productResult(ret)
}

func productResult(ret mock.Arguments) (*models.Product, error) {
	var r0 *models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Product)
	}

	return r0, ret.Error(1)
}

func productsResult(ret mock.Arguments) ([]*models.Product, error) {
	var r0 []*models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Product)
	}

	return r0, ret.Error(1)
}

// NewMockProductRepository creates a new instance of MockProductRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockProductRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductRepository {
	m := &MockProductRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
