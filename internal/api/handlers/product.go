package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	service "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/services"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// CreateProduct godoc
//	@Summary		Create a catalog product
//	@Description	Admins only. The product belongs to the admin's organization.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		409		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), viewer, &req)
		if err != nil {
			logger.Error("Failed to create product", slog.String("sku", req.SKU), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Product created", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusCreated, product)
	}
}

// CreateClientProduct godoc
//	@Summary	Upload a client-owned product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		product	body		models.CreateClientProductRequest	true	"Product details"
//	@Success	201		{object}	models.Product
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	409		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/products/client [post]
func (h *ProductHandler) CreateClientProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		var req models.CreateClientProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.CreateClientProduct(r.Context(), viewer, &req)
		if err != nil {
			logger.Error("Failed to upload client product", slog.String("sku", req.SKU), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusCreated, product)
	}
}

// GetProduct godoc
//	@Summary	Get a product with its effective stock
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	models.InventoryItem
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
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

		item, err := h.productService.GetProduct(r.Context(), viewer, id)
		if err != nil {
			logger.Warn("Failed to fetch product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, item)
	}
}

// UpdateInventory godoc
//	@Summary	Set stock on an admin-owned product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string							true	"Product ID"
//	@Param		inventory	body		models.UpdateInventoryRequest	true	"Stock values"
//	@Success	200			{object}	models.Product
//	@Failure	400			{object}	response.ErrorResponse
//	@Failure	403			{object}	response.ErrorResponse
//	@Failure	404			{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/products/{id}/inventory [put]
func (h *ProductHandler) UpdateInventory() http.HandlerFunc {
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

		var req models.UpdateInventoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateInventory(r.Context(), viewer, id, &req)
		if err != nil {
			logger.Error("Failed to update inventory", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// UpdateClientInventory godoc
//	@Summary	Set the client's own stock on a client product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string								true	"Product ID"
//	@Param		inventory	body		models.UpdateClientInventoryRequest	true	"Stock values"
//	@Success	200			{object}	models.Product
//	@Failure	400			{object}	response.ErrorResponse
//	@Failure	404			{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/products/{id}/client-inventory [put]
func (h *ProductHandler) UpdateClientInventory() http.HandlerFunc {
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

		var req models.UpdateClientInventoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateClientInventory(r.Context(), viewer, id, &req)
		if err != nil {
			logger.Error("Failed to update client inventory", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// AdjustStock godoc
//	@Summary	Add or remove stock by a signed delta
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Product ID"
//	@Param		delta	body		models.AdjustStockRequest	true	"Signed stock change"
//	@Success	200		{object}	models.Product
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	403		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/products/{id}/adjust [post]
func (h *ProductHandler) AdjustStock() http.HandlerFunc {
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

		var req models.AdjustStockRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.AdjustStock(r.Context(), viewer, id, req.Delta)
		if err != nil {
			logger.Error("Failed to adjust stock", slog.String("productId", id.String()), slog.Int64("delta", req.Delta), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}
