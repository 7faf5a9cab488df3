package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	service "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/services"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type PurchaseRequestHandler struct {
	requestService service.PurchaseRequestService
	validator      *validator.Validate
}

func NewPurchaseRequestHandler(requestService service.PurchaseRequestService) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{requestService: requestService, validator: validator.New()}
}

// CreateRequest godoc
//	@Summary		Request stock from the organization catalog
//	@Description	Clients only. The unit price is copied from the product at creation time.
//	@Tags			Purchase Requests
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.CreatePurchaseRequest	true	"Product and quantity"
//	@Success		201		{object}	models.PurchaseRequest
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchase-requests [post]
func (h *PurchaseRequestHandler) CreateRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		var req models.CreatePurchaseRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		request, err := h.requestService.CreateRequest(r.Context(), viewer, &req)
		if err != nil {
			logger.Error("Failed to create purchase request", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Purchase request created", slog.String("requestId", request.ID.String()))
		response.Success(w, http.StatusCreated, request)
	}
}

// ListRequests godoc
//	@Summary		List purchase requests
//	@Description	Clients see their own requests. Admins see every request in their organization.
//	@Tags			Purchase Requests
//	@Produce		json
//	@Param			search		query		string	false	"Match on product, dealer, region or rejection reason"
//	@Param			status		query		string	false	"pending, approved, rejected, completed or all"
//	@Param			dealer		query		string	false	"Exact dealer name"
//	@Param			region		query		string	false	"Exact region"
//	@Param			page		query		int		false	"Page number (default: 1)"
//	@Param			pageSize	query		int		false	"Items per page (default: 10, max: 100)"
//	@Success		200			{object}	models.PaginatedResponse{data=[]models.PurchaseRequest}
//	@Failure		401			{object}	response.ErrorResponse
//	@Failure		500			{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchase-requests [get]
func (h *PurchaseRequestHandler) ListRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		page, pageSize := utils.PageParams(r)
		filter := utils.FilterParams(r, "dealer", "region")

		result, err := h.requestService.ListRequests(r.Context(), viewer, filter, page, pageSize)
		if err != nil {
			logger.Error("Failed to list purchase requests", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:       result.Items,
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
		})
	}
}

// GetRequest godoc
//	@Summary	Get a purchase request
//	@Tags		Purchase Requests
//	@Produce	json
//	@Param		id	path		string	true	"Purchase request ID"
//	@Success	200	{object}	models.PurchaseRequest
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/purchase-requests/{id} [get]
func (h *PurchaseRequestHandler) GetRequest() http.HandlerFunc {
	return h.byID("Failed to fetch purchase request", http.StatusOK, h.requestService.GetRequest)
}

// Approve godoc
//	@Summary		Approve a pending purchase request
//	@Description	Moves the quantity from the admin product into the client's copy in one transaction.
//	@Tags			Purchase Requests
//	@Produce		json
//	@Param			id	path		string	true	"Purchase request ID"
//	@Success		200	{object}	models.ApprovalResult
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		409	{object}	response.ErrorResponse
//	@Failure		422	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchase-requests/{id}/approve [post]
func (h *PurchaseRequestHandler) Approve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		result, err := h.requestService.Approve(r.Context(), viewer, id)
		if err != nil {
			logger.Error("Failed to approve purchase request", slog.String("requestId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Purchase request approved",
			slog.String("requestId", id.String()),
			slog.Int64("adminStock", result.AdminProduct.NewStock),
			slog.Int64("clientStock", result.ClientProduct.Stock),
		)
		response.Success(w, http.StatusOK, result)
	}
}

// Reject godoc
//	@Summary	Reject a pending purchase request
//	@Tags		Purchase Requests
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Purchase request ID"
//	@Param		reason	body		models.RejectPurchaseRequest	true	"Rejection reason"
//	@Success	200		{object}	models.PurchaseRequest
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	409		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/purchase-requests/{id}/reject [post]
func (h *PurchaseRequestHandler) Reject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.RejectPurchaseRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		request, err := h.requestService.Reject(r.Context(), viewer, id, req.Reason)
		if err != nil {
			logger.Error("Failed to reject purchase request", slog.String("requestId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, request)
	}
}

// Complete godoc
//	@Summary	Mark an approved purchase request as completed
//	@Tags		Purchase Requests
//	@Produce	json
//	@Param		id	path		string	true	"Purchase request ID"
//	@Success	200	{object}	models.PurchaseRequest
//	@Failure	409	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/purchase-requests/{id}/complete [post]
func (h *PurchaseRequestHandler) Complete() http.HandlerFunc {
	return h.byID("Failed to complete purchase request", http.StatusOK, h.requestService.Complete)
}

type requestAction func(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.PurchaseRequest, error)

// byID serves the endpoints that take only a path id and return the request.
func (h *PurchaseRequestHandler) byID(failure string, status int, action requestAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		request, err := action(r.Context(), viewer, id)
		if err != nil {
			logger.Error(failure, slog.String("requestId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, status, request)
	}
}
