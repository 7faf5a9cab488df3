package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPurchaseRequestRepository is a mock type for the PurchaseRequestRepository type
type MockPurchaseRequestRepository struct {
	mock.Mock
}

func (_m *MockPurchaseRequestRepository) Create(ctx context.Context, req *models.PurchaseRequest) error {
	ret := _m.Called(ctx, req)

	if rf, ok := ret.Get(0).(func(context.Context, *models.PurchaseRequest) error); ok {
		return rf(ctx, req)
	}

	return ret.Error(0)
}

func (_m *MockPurchaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	ret := _m.Called(ctx, id)

	return requestResult(ret)
}

func (_m *MockPurchaseRequestRepository) List(ctx context.Context, filter models.PurchaseRequestFilter) ([]*models.PurchaseRequest, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*models.PurchaseRequest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.PurchaseRequest)
	}

	return r0, ret.Error(1)
}

func (_m *MockPurchaseRequestRepository) Approve(ctx context.Context, id, reviewerID, organizationID uuid.UUID, reorderLevel int64) (*models.ApprovalResult, error) {
	ret := _m.Called(ctx, id, reviewerID, organizationID, reorderLevel)

	var r0 *models.ApprovalResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.ApprovalResult)
	}

	return r0, ret.Error(1)
}

func (_m *MockPurchaseRequestRepository) Reject(ctx context.Context, id, reviewerID, organizationID uuid.UUID, reason string) (*models.PurchaseRequest, error) {
	ret := _m.Called(ctx, id, reviewerID, organizationID, reason)

	return requestResult(ret)
}

func (_m *MockPurchaseRequestRepository) Complete(ctx context.Context, id, organizationID uuid.UUID) (*models.PurchaseRequest, error) {
	ret := _m.Called(ctx, id, organizationID)

	return requestResult(ret)
}

func requestResult(ret mock.Arguments) (*models.PurchaseRequest, error) {
	var r0 *models.PurchaseRequest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.PurchaseRequest)
	}

	return r0, ret.Error(1)
}

// NewMockPurchaseRequestRepository creates a new instance of MockPurchaseRequestRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockPurchaseRequestRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPurchaseRequestRepository {
	m := &MockPurchaseRequestRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
