package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/listing"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPurchaseRequestService is a mock type for the PurchaseRequestService type
type MockPurchaseRequestService struct {
	mock.Mock
}

func (_m *MockPurchaseRequestService) CreateRequest(ctx context.Context, viewer models.Viewer, req *models.CreatePurchaseRequest) (*models.PurchaseRequest, error) {
	ret := _m.Called(ctx, viewer, req)

	return requestResult(ret)
}

func (_m *MockPurchaseRequestService) GetRequest(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.PurchaseRequest, error) {
	ret := _m.Called(ctx, viewer, id)

	return requestResult(ret)
}

func (_m *MockPurchaseRequestService) ListRequests(ctx context.Context, viewer models.Viewer, filter listing.Filter, page, pageSize int) (listing.Result[*models.PurchaseRequest], error) {
	ret := _m.Called(ctx, viewer, filter, page, pageSize)

	var r0 listing.Result[*models.PurchaseRequest]
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(listing.Result[*models.PurchaseRequest])
	}

	return r0, ret.Error(1)
}

func (_m *MockPurchaseRequestService) Approve(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.ApprovalResult, error) {
	ret := _m.Called(ctx, viewer, id)

	var r0 *models.ApprovalResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.ApprovalResult)
	}

	return r0, ret.Error(1)
}

func (_m *MockPurchaseRequestService) Reject(ctx context.Context, viewer models.Viewer, id uuid.UUID, reason string) (*models.PurchaseRequest, error) {
	ret := _m.Called(ctx, viewer, id, reason)

	return requestResult(ret)
}

func (_m *MockPurchaseRequestService) Complete(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.PurchaseRequest, error) {
	ret := _m.Called(ctx, viewer, id)

	return requestResult(ret)
}

func requestResult(ret mock.Arguments) (*models.PurchaseRequest, error) {
	var r0 *models.PurchaseRequest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.PurchaseRequest)
	}

	return r0, ret.Error(1)
}

// NewMockPurchaseRequestService creates a new instance of MockPurchaseRequestService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockPurchaseRequestService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPurchaseRequestService {
	m := &MockPurchaseRequestService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
