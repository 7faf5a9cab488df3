package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/events"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/listing"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/metrics"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	repository "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const rateLimitAction = "purchase_request"

type PurchaseRequestService interface {
	CreateRequest(ctx context.Context, viewer models.Viewer, req *models.CreatePurchaseRequest) (*models.PurchaseRequest, error)
	GetRequest(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.PurchaseRequest, error)
	ListRequests(ctx context.Context, viewer models.Viewer, filter listing.Filter, page, pageSize int) (listing.Result[*models.PurchaseRequest], error)
	Approve(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.ApprovalResult, error)
	Reject(ctx context.Context, viewer models.Viewer, id uuid.UUID, reason string) (*models.PurchaseRequest, error)
	Complete(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.PurchaseRequest, error)
}

type purchaseRequestService struct {
	requests            repository.PurchaseRequestRepository
	products            repository.ProductRepository
	rateLimiter         repository.RateLimitRepository
	notifications       NotificationService
	publisher           events.Publisher
	sanitizer           *bluemonday.Policy
	defaultReorderLevel int64
}

func NewPurchaseRequestService(
	requests repository.PurchaseRequestRepository,
	products repository.ProductRepository,
	rateLimiter repository.RateLimitRepository,
	notifications NotificationService,
	publisher events.Publisher,
	defaultReorderLevel int64,
) PurchaseRequestService {
	return &purchaseRequestService{
		requests:            requests,
		products:            products,
		rateLimiter:         rateLimiter,
		notifications:       notifications,
		publisher:           publisher,
		sanitizer:           bluemonday.StrictPolicy(),
		defaultReorderLevel: defaultReorderLevel,
	}
}

func (s *purchaseRequestService) CreateRequest(ctx context.Context, viewer models.Viewer, req *models.CreatePurchaseRequest) (*models.PurchaseRequest, error) {
	if viewer.IsAdmin() {
		return nil, errors.ForbiddenError("Only clients can submit purchase requests")
	}

	if req.Quantity <= 0 {
		return nil, errors.AddValidationError("quantity", "must be greater than zero")
	}

	allowed, _, retryAfter, err := s.rateLimiter.CheckRateLimit(ctx, rateLimitAction, viewer.UserID.String())
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, errors.TooManyRequestsError("Too many purchase requests").
			WithDetail(fmt.Sprintf("Try again in %d seconds", retryAfter))
	}

	product, err := s.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if product.ClientID != nil || product.OrganizationID != viewer.OrganizationID || product.Status != models.ProductStatusActive {
		return nil, errors.AddValidationError("productId", "product is not available for purchase")
	}

	if !product.Price.IsPositive() {
		return nil, errors.AddValidationError("productId", "product has no price")
	}

	request := &models.PurchaseRequest{
		Product:   models.RefTo(*product),
		Client:    models.RefByID[models.ClientSummary](viewer.UserID),
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
		Status:    models.RequestStatusPending,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, errors.DatabaseError("Failed to create purchase request").WithError(err)
	}

	metrics.RecordTransition(string(models.RequestStatusPending), "ok")

	s.notify(ctx, &models.Notification{
		RecipientID: product.CreatedBy,
		Type:        models.NotificationTypeRequestCreated,
		Title:       "New purchase request",
		Message:     fmt.Sprintf("A client requested %d x %s", request.Quantity, product.Name),
		ReferenceID: &request.ID,
	})

	return request, nil
}

func (s *purchaseRequestService) GetRequest(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.PurchaseRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, requestError(err, "Failed to fetch purchase request")
	}

	if !canViewRequest(viewer, request) {
		return nil, errors.NotFoundError("Purchase request not found")
	}

	s.recoverRejectionReasons(ctx, []*models.PurchaseRequest{request})

	return request, nil
}

// ListRequests returns requests visible to the viewer. Clients only ever see
// their own, admins those for products of their organization.
func (s *purchaseRequestService) ListRequests(ctx context.Context, viewer models.Viewer, filter listing.Filter, page, pageSize int) (listing.Result[*models.PurchaseRequest], error) {
	organizationID := viewer.OrganizationID
	repoFilter := models.PurchaseRequestFilter{OrganizationID: &organizationID}

	if !viewer.IsAdmin() {
		clientID := viewer.UserID
		repoFilter.ClientID = &clientID
	}

	if status := models.RequestStatus(filter.Status); status.Valid() {
		repoFilter.Status = status
	}

	requests, err := s.requests.List(ctx, repoFilter)
	if err != nil {
		return listing.Result[*models.PurchaseRequest]{}, errors.DatabaseError("Failed to list purchase requests").WithError(err)
	}

	s.recoverRejectionReasons(ctx, requests)

	return listing.Paginate(listing.Apply(requests, filter), page, pageSize), nil
}

// Approve transfers the requested quantity to the client in one transaction,
// then broadcasts the change and notifies the client.
func (s *purchaseRequestService) Approve(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.ApprovalResult, error) {
	if !viewer.IsAdmin() {
		return nil, errors.ForbiddenError("Only admins can approve purchase requests")
	}

	result, err := s.requests.Approve(ctx, id, viewer.UserID, viewer.OrganizationID, s.defaultReorderLevel)
	if err != nil {
		metrics.RecordTransition(string(models.RequestStatusApproved), "error")
		return nil, requestError(err, "Failed to approve purchase request")
	}

	metrics.RecordTransition(string(models.RequestStatusApproved), "ok")

	middleware.LoggerFromContext(ctx).Info("Purchase request approved",
		slog.String("requestId", id.String()),
		slog.Int64("adminStock", result.AdminProduct.NewStock),
		slog.Int64("clientStock", result.ClientProduct.Stock),
		slog.Bool("clientProductCreated", result.ClientProduct.IsNew),
	)

	event := events.NewInventoryUpdated("purchase_request_approved", result.AdminProduct.ID, result.ClientProduct.ID)
	event.RequestID = &id
	s.publish(ctx, event)

	if result.Request != nil {
		s.notify(ctx, &models.Notification{
			RecipientID: result.Request.Client.ID(),
			Type:        models.NotificationTypeRequestApproved,
			Title:       "Purchase request approved",
			Message:     fmt.Sprintf("Your purchase request for %s was approved", result.AdminProduct.Name),
			ReferenceID: &id,
		})
	}

	return result, nil
}

// Reject records the decision and its reason. Stock is never touched.
func (s *purchaseRequestService) Reject(ctx context.Context, viewer models.Viewer, id uuid.UUID, reason string) (*models.PurchaseRequest, error) {
	reason = plainText(s.sanitizer, reason)
	if reason == "" {
		return nil, errors.AddValidationError("reason", "a rejection reason is required")
	}

	if !viewer.IsAdmin() {
		return nil, errors.ForbiddenError("Only admins can reject purchase requests")
	}

	request, err := s.requests.Reject(ctx, id, viewer.UserID, viewer.OrganizationID, reason)
	if err != nil {
		metrics.RecordTransition(string(models.RequestStatusRejected), "error")
		return nil, requestError(err, "Failed to reject purchase request")
	}

	metrics.RecordTransition(string(models.RequestStatusRejected), "ok")

	productName := request.Product.Resolve().DisplayName

	s.notify(ctx, &models.Notification{
		RecipientID: request.Client.ID(),
		Type:        models.NotificationTypeRequestRejected,
		Title:       "Purchase request rejected",
		Message:     models.RejectionMessage(productName, reason),
		ReferenceID: &id,
	})

	return request, nil
}

func (s *purchaseRequestService) Complete(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.PurchaseRequest, error) {
	if !viewer.IsAdmin() {
		return nil, errors.ForbiddenError("Only admins can complete purchase requests")
	}

	request, err := s.requests.Complete(ctx, id, viewer.OrganizationID)
	if err != nil {
		metrics.RecordTransition(string(models.RequestStatusCompleted), "error")
		return nil, requestError(err, "Failed to complete purchase request")
	}

	metrics.RecordTransition(string(models.RequestStatusCompleted), "ok")

	return request, nil
}

// canViewRequest reports whether the request is visible to the viewer. Requests whose
// product was not loaded are only checked by client.
func canViewRequest(viewer models.Viewer, request *models.PurchaseRequest) bool {
	if !viewer.IsAdmin() {
		return request.Client.ID() == viewer.UserID
	}

	product, ok := request.Product.Value()

	return !ok || product.OrganizationID == viewer.OrganizationID
}

// recoverRejectionReasons fills empty reasons of rejected requests from the
// notification feed. Failures leave the reasons empty.
func (s *purchaseRequestService) recoverRejectionReasons(ctx context.Context, requests []*models.PurchaseRequest) {
	var missing []uuid.UUID

	for _, r := range requests {
		if r.Status == models.RequestStatusRejected && r.RejectionReason == "" {
			missing = append(missing, r.ID)
		}
	}

	if len(missing) == 0 || s.notifications == nil {
		return
	}

	reasons, err := s.notifications.RejectionReasons(ctx, missing)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Could not recover rejection reasons", slog.String("error", err.Error()))
		return
	}

	for _, r := range requests {
		if reason, ok := reasons[r.ID]; ok && r.RejectionReason == "" {
			r.RejectionReason = reason
		}
	}
}

func (s *purchaseRequestService) notify(ctx context.Context, notification *models.Notification) {
	if s.notifications == nil {
		return
	}

	if err := s.notifications.Notify(ctx, notification); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to record notification",
			slog.String("type", string(notification.Type)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *purchaseRequestService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to broadcast inventory update",
			slog.String("reason", event.Reason),
			slog.String("error", err.Error()),
		)
	}
}

// requestError maps storage and lifecycle failures onto API errors.
func requestError(err error, fallback string) error {
	var transitionErr *models.TransitionError

	switch {
	case stdErrors.Is(err, repository.ErrRequestNotFound):
		return errors.NotFoundError("Purchase request not found").WithError(err)
	case stdErrors.Is(err, repository.ErrProductNotFound):
		return errors.NotFoundError("Product not found").WithError(err)
	case stdErrors.Is(err, repository.ErrInsufficientStock):
		return errors.InsufficientStockError("Insufficient stock to approve this request").WithDetail(err.Error()).WithError(err)
	case stdErrors.Is(err, repository.ErrConcurrentUpdate):
		return errors.ConflictError("Purchase request was modified by someone else, reload and retry").WithError(err)
	case stdErrors.As(err, &transitionErr):
		return errors.InvalidTransitionError(transitionErr.Error()).WithError(err)
	default:
		return errors.DatabaseError(fallback).WithError(err)
	}
}
