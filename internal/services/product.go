package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/events"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	repository "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type ProductService interface {
	CreateProduct(ctx context.Context, viewer models.Viewer, req *models.CreateProductRequest) (*models.Product, error)
	CreateClientProduct(ctx context.Context, viewer models.Viewer, req *models.CreateClientProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.InventoryItem, error)
	UpdateInventory(ctx context.Context, viewer models.Viewer, id uuid.UUID, req *models.UpdateInventoryRequest) (*models.Product, error)
	UpdateClientInventory(ctx context.Context, viewer models.Viewer, id uuid.UUID, req *models.UpdateClientInventoryRequest) (*models.Product, error)
	AdjustStock(ctx context.Context, viewer models.Viewer, id uuid.UUID, delta int64) (*models.Product, error)
}

type productService struct {
	repo                repository.ProductRepository
	publisher           events.Publisher
	sanitizer           *bluemonday.Policy
	defaultReorderLevel int64
	now                 func() time.Time
}

func NewProductService(repo repository.ProductRepository, publisher events.Publisher, defaultReorderLevel int64) ProductService {
	return &productService{
		repo:                repo,
		publisher:           publisher,
		sanitizer:           bluemonday.StrictPolicy(),
		defaultReorderLevel: defaultReorderLevel,
		now:                 time.Now,
	}
}

func (s *productService) CreateProduct(ctx context.Context, viewer models.Viewer, req *models.CreateProductRequest) (*models.Product, error) {
	if !viewer.IsAdmin() {
		return nil, errors.ForbiddenError("Only admins can create catalog products")
	}

	if req.Price.IsNegative() {
		return nil, errors.AddValidationError("price", "must not be negative")
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusActive
	}

	product := &models.Product{
		Name:           strings.TrimSpace(req.Name),
		SKU:            strings.TrimSpace(req.SKU),
		Description:    plainText(s.sanitizer, req.Description),
		Category:       strings.TrimSpace(req.Category),
		Price:          req.Price,
		Points:         req.Points,
		Stock:          req.Stock,
		ReorderLevel:   req.ReorderLevel,
		Status:         status,
		CreatedBy:      viewer.UserID,
		OrganizationID: viewer.OrganizationID,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, createError(err)
	}

	s.publish(ctx, events.NewInventoryUpdated("product_created", product.ID))

	return product, nil
}

// CreateClientProduct records a product a client sources on their own. Its
// stock lives in the client inventory, seeded from the initial stock.
func (s *productService) CreateClientProduct(ctx context.Context, viewer models.Viewer, req *models.CreateClientProductRequest) (*models.Product, error) {
	if viewer.IsAdmin() {
		return nil, errors.ForbiddenError("Only clients can upload their own products")
	}

	if req.Price.IsNegative() {
		return nil, errors.AddValidationError("price", "must not be negative")
	}

	reorderLevel := s.defaultReorderLevel
	if req.ReorderLevel != nil {
		reorderLevel = *req.ReorderLevel
	}

	clientID := viewer.UserID

	product := &models.Product{
		Name:             strings.TrimSpace(req.Name),
		SKU:              strings.TrimSpace(req.SKU),
		Description:      plainText(s.sanitizer, req.Description),
		Category:         strings.TrimSpace(req.Category),
		Price:            req.Price,
		Status:           models.ProductStatusActive,
		IsClientUploaded: true,
		CreatedBy:        viewer.UserID,
		ClientID:         &clientID,
		OrganizationID:   viewer.OrganizationID,
		ClientInventory: &models.ClientInventory{
			InitialStock: req.InitialStock,
			CurrentStock: req.InitialStock,
			ReorderLevel: reorderLevel,
			LastUpdated:  s.now().UTC(),
		},
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, createError(err)
	}

	s.publish(ctx, events.NewInventoryUpdated("client_product_created", product.ID))

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.InventoryItem, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canView(viewer, product) {
		return nil, errors.NotFoundError("Product not found")
	}

	return &models.InventoryItem{Product: *product, Effective: product.EffectiveStock(s.defaultReorderLevel)}, nil
}

// UpdateInventory sets the base stock figures of an admin catalog product.
func (s *productService) UpdateInventory(ctx context.Context, viewer models.Viewer, id uuid.UUID, req *models.UpdateInventoryRequest) (*models.Product, error) {
	if !viewer.IsAdmin() {
		return nil, errors.ForbiddenError("Only admins can update catalog inventory")
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.OrganizationID != viewer.OrganizationID || product.ClientID != nil {
		return nil, errors.ForbiddenError("Product is not part of your catalog")
	}

	product.Stock = *req.CurrentStock

	if req.ReorderLevel != nil {
		product.ReorderLevel = req.ReorderLevel
	}

	if req.ReservedStock != nil {
		product.ReservedStock = *req.ReservedStock
	}

	if err := s.repo.UpdateStockLevels(ctx, product); err != nil {
		return nil, updateError(err)
	}

	s.publish(ctx, events.NewInventoryUpdated("inventory_updated", product.ID))

	return product, nil
}

// UpdateClientInventory sets the client-held stock of a product the client owns.
func (s *productService) UpdateClientInventory(ctx context.Context, viewer models.Viewer, id uuid.UUID, req *models.UpdateClientInventoryRequest) (*models.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ownsClientRecord(viewer, product) {
		return nil, errors.ForbiddenError("Product inventory belongs to another client")
	}

	ci := product.ClientInventory
	if ci == nil {
		// Records that lost their inventory are repaired by the first update.
		ci = &models.ClientInventory{InitialStock: *req.CurrentStock, ReorderLevel: s.defaultReorderLevel}
		product.ClientInventory = ci

		middleware.LoggerFromContext(ctx).Warn("Recreating missing client inventory", slog.String("productId", product.ID.String()))
	}

	ci.CurrentStock = *req.CurrentStock
	ci.LastUpdated = s.now().UTC()

	if req.ReorderLevel != nil {
		ci.ReorderLevel = *req.ReorderLevel
	}

	if err := s.repo.UpdateStockLevels(ctx, product); err != nil {
		return nil, updateError(err)
	}

	s.publish(ctx, events.NewInventoryUpdated("client_inventory_updated", product.ID))

	return product, nil
}

// AdjustStock moves the effective stock by delta. The result never goes below zero.
func (s *productService) AdjustStock(ctx context.Context, viewer models.Viewer, id uuid.UUID, delta int64) (*models.Product, error) {
	if delta == 0 {
		return nil, errors.AddValidationError("delta", "must not be zero")
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canModify(viewer, product) {
		return nil, errors.ForbiddenError("You cannot adjust stock of this product")
	}

	// client uploads are counted on their inventory record only
	if product.IsClientUploaded && product.ClientInventory == nil {
		return nil, errors.AddValidationError("clientInventory", "product has no inventory record, set stock levels first")
	}

	updated, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, updateError(err)
	}

	s.publish(ctx, events.NewInventoryUpdated("stock_adjusted", updated.ID))

	return updated, nil
}

func (s *productService) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

// publish never fails the caller: the change is already committed.
func (s *productService) publish(ctx context.Context, event events.Event) {
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

func canView(viewer models.Viewer, p *models.Product) bool {
	if viewer.IsAdmin() {
		return p.OrganizationID == viewer.OrganizationID
	}

	if p.ClientID == nil {
		return p.OrganizationID == viewer.OrganizationID && p.Status == models.ProductStatusActive
	}

	return ownsClientRecord(viewer, p)
}

func canModify(viewer models.Viewer, p *models.Product) bool {
	if viewer.IsAdmin() {
		return p.ClientID == nil && p.OrganizationID == viewer.OrganizationID
	}

	return ownsClientRecord(viewer, p)
}

func ownsClientRecord(viewer models.Viewer, p *models.Product) bool {
	return p.ClientID != nil && *p.ClientID == viewer.UserID
}

func createError(err error) error {
	if stdErrors.Is(err, repository.ErrDuplicateSKU) {
		return errors.DuplicateEntryError("A product with this SKU already exists").WithError(err)
	}

	return errors.DatabaseError("Failed to create product").WithError(err)
}

func updateError(err error) error {
	if stdErrors.Is(err, repository.ErrProductNotFound) {
		return errors.NotFoundError("Product not found").WithError(err)
	}

	return errors.DatabaseError("Failed to update product inventory").WithError(err)
}
