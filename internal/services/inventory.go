package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/cache"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/config"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/events"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/inventory"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/listing"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/metrics"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	repository "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/repositories"
	"github.com/google/uuid"
)

type InventoryService interface {
	Reconcile(ctx context.Context, viewer models.Viewer) (*models.InventoryView, error)
	ListInventory(ctx context.Context, viewer models.Viewer, filter listing.Filter, page, pageSize int) (*models.InventoryPage, error)
	LastUpdate(ctx context.Context) (int64, error)
}

type inventoryService struct {
	repo     repository.ProductRepository
	cache    cache.Cache
	marker   events.Marker
	cfg      config.Inventory
	cacheTTL time.Duration
}

func NewInventoryService(repo repository.ProductRepository, cache cache.Cache, marker events.Marker, cfg config.Inventory, cacheTTL time.Duration) InventoryService {
	return &inventoryService{
		repo:     repo,
		cache:    cache,
		marker:   marker,
		cfg:      cfg,
		cacheTTL: cacheTTL,
	}
}

// sourceFetch is the outcome of one reconciliation query.
type sourceFetch struct {
	source   models.InventorySource
	products []*models.Product
	err      error
}

func (s *inventoryService) Reconcile(ctx context.Context, viewer models.Viewer) (*models.InventoryView, error) {
	logger := middleware.LoggerFromContext(ctx)

	// A missing marker only disables caching for this call.
	var lastUpdate int64

	version, markerErr := s.marker.Version(ctx)
	if markerErr == nil {
		lastUpdate, markerErr = s.marker.LastUpdate(ctx)
	}

	if markerErr != nil {
		logger.Warn("Inventory marker unavailable, bypassing cache", slog.String("error", markerErr.Error()))
	}

	key := cache.Key(cache.InventoryKeyPrefix, string(viewer.Role), viewer.UserID.String(), strconv.FormatInt(version, 10))

	if markerErr == nil && s.cache != nil {
		var cached models.InventoryView

		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("Inventory cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}

		if found {
			return &cached, nil
		}
	}

	var (
		view *models.InventoryView
		err  error
	)

	if viewer.IsAdmin() {
		view, err = s.reconcileAdmin(ctx, viewer)
	} else {
		view, err = s.reconcileClient(ctx, viewer)
	}

	if err != nil {
		metrics.RecordReconciliation(string(viewer.Role), "error")
		return nil, err
	}

	view.LastUpdate = lastUpdate
	s.warnIntegrity(logger, view.Items)

	outcome := "ok"
	if view.Degraded {
		outcome = "degraded"
	}

	metrics.RecordReconciliation(string(viewer.Role), outcome)

	// Degraded views are not cached so the next request retries the failed sources.
	if markerErr == nil && !view.Degraded && s.cache != nil {
		if err := s.cache.Set(ctx, key, view, s.cacheTTL); err != nil {
			logger.Warn("Inventory cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return view, nil
}

func (s *inventoryService) reconcileAdmin(ctx context.Context, viewer models.Viewer) (*models.InventoryView, error) {
	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()

	products, err := s.repo.ListByCreator(fetchCtx, viewer.UserID)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Admin inventory fetch failed", slog.String("error", err.Error()))
		metrics.RecordSourceFailure(string(models.SourceAdminOwned))

		return nil, errors.DatabaseError("Failed to load inventory").WithError(err)
	}

	return &models.InventoryView{Items: inventory.Items(products, s.cfg.DefaultReorderLevel)}, nil
}

func (s *inventoryService) reconcileClient(ctx context.Context, viewer models.Viewer) (*models.InventoryView, error) {
	logger := middleware.LoggerFromContext(ctx)

	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()

	queries := []struct {
		source models.InventorySource
		fetch  func(context.Context, uuid.UUID) ([]*models.Product, error)
		id     uuid.UUID
	}{
		{models.SourceCreatedByClient, s.repo.ListByCreator, viewer.UserID},
		{models.SourceClientUploaded, s.repo.ListClientUploaded, viewer.UserID},
		{models.SourceTransferred, s.repo.ListTransferred, viewer.UserID},
		{models.SourceAdminCatalog, s.repo.ListActiveCatalog, viewer.OrganizationID},
	}

	results := make([]sourceFetch, len(queries))

	var wg sync.WaitGroup

	for i, q := range queries {
		wg.Add(1)

		go func() {
			defer wg.Done()

			products, err := q.fetch(fetchCtx, q.id)
			results[i] = sourceFetch{source: q.source, products: products, err: err}
		}()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var (
		src    inventory.Sources
		failed []models.InventorySource
	)

	for _, r := range results {
		if r.err != nil {
			logger.Error("Inventory source failed", slog.String("source", string(r.source)), slog.String("error", r.err.Error()))
			metrics.RecordSourceFailure(string(r.source))
			failed = append(failed, r.source)

			continue
		}

		switch r.source {
		case models.SourceCreatedByClient:
			src.CreatedByClient = r.products
		case models.SourceClientUploaded:
			src.ClientUploaded = r.products
		case models.SourceTransferred:
			src.Transferred = r.products
		case models.SourceAdminCatalog:
			src.AdminCatalog = r.products
		}
	}

	if len(failed) == len(results) {
		return nil, errors.DatabaseError("Failed to load inventory").WithError(results[0].err)
	}

	return &models.InventoryView{
		Items:         inventory.Items(inventory.Merge(src), s.cfg.DefaultReorderLevel),
		Degraded:      len(failed) > 0,
		FailedSources: failed,
	}, nil
}

func (s *inventoryService) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.cfg.FetchTimeout)
}

func (s *inventoryService) warnIntegrity(logger *slog.Logger, items []models.InventoryItem) {
	for _, item := range items {
		if !item.Effective.MissingInventory {
			continue
		}

		metrics.RecordIntegrityWarning()
		logger.Warn("Client-uploaded product has no inventory record, showing zero stock",
			slog.String("productId", item.ID.String()),
			slog.String("sku", item.SKU),
		)
	}
}

func (s *inventoryService) ListInventory(ctx context.Context, viewer models.Viewer, filter listing.Filter, page, pageSize int) (*models.InventoryPage, error) {
	view, err := s.Reconcile(ctx, viewer)
	if err != nil {
		return nil, err
	}

	result := listing.Paginate(listing.Apply(view.Items, filter), page, pageSize)

	return &models.InventoryPage{
		Data:          result.Items,
		Total:         result.Total,
		Page:          result.Page,
		PageSize:      result.PageSize,
		TotalPages:    result.TotalPages,
		Degraded:      view.Degraded,
		FailedSources: view.FailedSources,
		LastUpdate:    view.LastUpdate,
	}, nil
}

func (s *inventoryService) LastUpdate(ctx context.Context) (int64, error) {
	at, err := s.marker.LastUpdate(ctx)
	if err != nil {
		return 0, errors.ThirdPartyError("Failed to read inventory marker").WithError(err)
	}

	return at, nil
}
