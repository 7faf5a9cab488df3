package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrRequestNotFound   = errors.New("purchase request not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConcurrentUpdate  = errors.New("purchase request changed concurrently")
)

type PurchaseRequestRepository interface {
	Create(ctx context.Context, req *models.PurchaseRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error)
	List(ctx context.Context, filter models.PurchaseRequestFilter) ([]*models.PurchaseRequest, error)
	Approve(ctx context.Context, id, reviewerID, organizationID uuid.UUID, reorderLevel int64) (*models.ApprovalResult, error)
	Reject(ctx context.Context, id, reviewerID, organizationID uuid.UUID, reason string) (*models.PurchaseRequest, error)
	Complete(ctx context.Context, id, organizationID uuid.UUID) (*models.PurchaseRequest, error)
}

type purchaseRequestRepository struct {
	DB *sql.DB
}

func NewPurchaseRequestRepo(db *sql.DB) PurchaseRequestRepository {
	return &purchaseRequestRepository{DB: db}
}

const purchaseRequestSelect = `
	SELECT pr.id, pr.quantity, pr.unit_price, pr.status, pr.rejection_reason, pr.reviewed_by, pr.created_at, pr.updated_at,
		p.id, p.name, p.sku, p.description, p.category, p.price, p.organization_id,
		u.id, u.name, u.email, u.dealer_name, u.region
	FROM purchase_requests pr
	JOIN products p ON p.id = pr.product_id
	JOIN users u ON u.id = pr.client_id`

func scanPurchaseRequest(row rowScanner) (*models.PurchaseRequest, error) {
	var (
		req        models.PurchaseRequest
		reason     sql.NullString
		reviewedBy uuid.NullUUID
		product    models.Product
		client     models.ClientSummary
		dealer     sql.NullString
		region     sql.NullString
	)

	err := row.Scan(&req.ID, &req.Quantity, &req.UnitPrice, &req.Status, &reason, &reviewedBy, &req.CreatedAt, &req.UpdatedAt,
		&product.ID, &product.Name, &product.SKU, &product.Description, &product.Category, &product.Price, &product.OrganizationID,
		&client.ID, &client.Name, &client.Email, &dealer, &region)
	if err != nil {
		return nil, err
	}

	req.RejectionReason = reason.String
	if reviewedBy.Valid {
		req.ReviewedBy = &reviewedBy.UUID
	}

	client.DealerName = dealer.String
	client.Region = region.String

	req.Product = models.RefTo(product)
	req.Client = models.RefTo(client)

	return &req, nil
}

func (r *purchaseRequestRepository) Create(ctx context.Context, req *models.PurchaseRequest) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO purchase_requests (product_id, client_id, quantity, unit_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, req.Product.ID(), req.Client.ID(), req.Quantity, req.UnitPrice, req.Status).
		Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert purchase request: %w", err)
	}

	return nil
}

func (r *purchaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	req, err := scanPurchaseRequest(r.DB.QueryRowContext(dbCtx, purchaseRequestSelect+` WHERE pr.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}

		return nil, fmt.Errorf("failed to get purchase request: %w", err)
	}

	return req, nil
}

func (r *purchaseRequestRepository) List(ctx context.Context, filter models.PurchaseRequestFilter) ([]*models.PurchaseRequest, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var clientID, organizationID uuid.NullUUID
	if filter.ClientID != nil {
		clientID = uuid.NullUUID{UUID: *filter.ClientID, Valid: true}
	}

	if filter.OrganizationID != nil {
		organizationID = uuid.NullUUID{UUID: *filter.OrganizationID, Valid: true}
	}

	query := purchaseRequestSelect + `
	WHERE ($1::uuid IS NULL OR pr.client_id = $1) AND ($2 = '' OR pr.status = $2)
		AND ($3::uuid IS NULL OR p.organization_id = $3)
	ORDER BY pr.created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, clientID, string(filter.Status), organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.PurchaseRequest{}

	for rows.Next() {
		req, err := scanPurchaseRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase request: %w", err)
		}

		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return requests, nil
}

// Approve moves stock from the admin product to the client's copy of it and
// marks the request approved, all in one transaction. Any failure leaves the
// request pending and both stock figures untouched. A request for a product
// outside organizationID is reported as not found.
func (r *purchaseRequestRepository) Approve(ctx context.Context, id, reviewerID, organizationID uuid.UUID, reorderLevel int64) (*models.ApprovalResult, error) {
	logger := middleware.LoggerFromContext(ctx)

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("Failed to roll back approval", slog.String("requestId", id.String()), slog.Any("error", rbErr))
		}
	}()

	var (
		productID uuid.UUID
		clientID  uuid.UUID
		quantity  int64
		status    models.RequestStatus
	)

	err = tx.QueryRowContext(dbCtx, `
		SELECT product_id, client_id, quantity, status
		FROM purchase_requests WHERE id = $1 FOR UPDATE`, id).Scan(&productID, &clientID, &quantity, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}

		return nil, fmt.Errorf("failed to lock purchase request: %w", err)
	}

	if _, err := models.Transition(status, models.RequestStatusApproved); err != nil {
		return nil, err
	}

	var (
		admin      models.Product
		adminStock int64
	)

	err = tx.QueryRowContext(dbCtx, `
		SELECT name, sku, description, category, price, points, stock, organization_id
		FROM products WHERE id = $1 FOR UPDATE`, productID).
		Scan(&admin.Name, &admin.SKU, &admin.Description, &admin.Category, &admin.Price, &admin.Points, &adminStock, &admin.OrganizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	if admin.OrganizationID != organizationID {
		return nil, ErrRequestNotFound
	}

	if adminStock < quantity {
		return nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, adminStock, quantity)
	}

	if _, err := tx.ExecContext(dbCtx, `UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2`, quantity, productID); err != nil {
		return nil, fmt.Errorf("failed to decrement admin stock: %w", err)
	}

	result := &models.ApprovalResult{
		AdminProduct: models.AdminProductChange{
			ID:            productID,
			Name:          admin.Name,
			PreviousStock: adminStock,
			NewStock:      adminStock - quantity,
		},
	}

	var (
		clientProductID uuid.UUID
		clientStock     sql.NullInt64
	)

	err = tx.QueryRowContext(dbCtx, `
		SELECT id, ci_current_stock FROM products
		WHERE client_id = $1 AND name = $2
		ORDER BY created_at LIMIT 1 FOR UPDATE`, clientID, admin.Name).Scan(&clientProductID, &clientStock)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(dbCtx, `
			INSERT INTO products (name, sku, description, category, price, points, stock, reserved_stock, status,
				is_client_uploaded, created_by, client_id, organization_id,
				ci_initial_stock, ci_current_stock, ci_reorder_level, ci_last_updated, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 'active', FALSE, $7, $7, $8, 0, $9, $10, NOW(), NOW(), NOW())
			RETURNING id`,
			admin.Name, clientSKU(admin.SKU, clientID), admin.Description, admin.Category, admin.Price, admin.Points,
			clientID, admin.OrganizationID, quantity, reorderLevel).Scan(&clientProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to create client product: %w", err)
		}

		result.ClientProduct = models.ClientProductChange{ID: clientProductID, Name: admin.Name, IsNew: true, Stock: quantity}
	case err != nil:
		return nil, fmt.Errorf("failed to find client product: %w", err)
	default:
		var newStock int64

		err = tx.QueryRowContext(dbCtx, `
			UPDATE products SET
				ci_initial_stock = COALESCE(ci_initial_stock, 0),
				ci_current_stock = COALESCE(ci_current_stock, 0) + $1,
				ci_reorder_level = COALESCE(ci_reorder_level, $2),
				ci_last_updated = NOW(), updated_at = NOW()
			WHERE id = $3
			RETURNING ci_current_stock`, quantity, reorderLevel, clientProductID).Scan(&newStock)
		if err != nil {
			return nil, fmt.Errorf("failed to increment client stock: %w", err)
		}

		result.ClientProduct = models.ClientProductChange{ID: clientProductID, Name: admin.Name, IsNew: false, Stock: newStock}
	}

	if _, err := tx.ExecContext(dbCtx, `
		UPDATE purchase_requests SET status = $1, reviewed_by = $2, updated_at = NOW()
		WHERE id = $3`, models.RequestStatusApproved, reviewerID, id); err != nil {
		return nil, fmt.Errorf("failed to mark request approved: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	req, err := r.GetByID(ctx, id)
	if err != nil {
		// committed already, report the change without the populated request
		logger.Warn("Failed to reload approved request", slog.String("requestId", id.String()), slog.Any("error", err))

		req = &models.PurchaseRequest{
			ID:         id,
			Product:    models.RefByID[models.Product](productID),
			Client:     models.RefByID[models.ClientSummary](clientID),
			Quantity:   quantity,
			Status:     models.RequestStatusApproved,
			ReviewedBy: &reviewerID,
		}
	}

	result.Request = req

	return result, nil
}

// Reject stores the decision and reason in a single conditional update.
func (r *purchaseRequestRepository) Reject(ctx context.Context, id, reviewerID, organizationID uuid.UUID, reason string) (*models.PurchaseRequest, error) {
	return r.moveFrom(ctx, id, organizationID, models.RequestStatusPending, models.RequestStatusRejected, `
		UPDATE purchase_requests SET status = $1, rejection_reason = $2, reviewed_by = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
			AND product_id IN (SELECT id FROM products WHERE organization_id = $6)
		RETURNING id`, models.RequestStatusRejected, reason, reviewerID, id, models.RequestStatusPending, organizationID)
}

func (r *purchaseRequestRepository) Complete(ctx context.Context, id, organizationID uuid.UUID) (*models.PurchaseRequest, error) {
	return r.moveFrom(ctx, id, organizationID, models.RequestStatusApproved, models.RequestStatusCompleted, `
		UPDATE purchase_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
			AND product_id IN (SELECT id FROM products WHERE organization_id = $4)
		RETURNING id`, models.RequestStatusCompleted, id, models.RequestStatusApproved, organizationID)
}

func (r *purchaseRequestRepository) moveFrom(ctx context.Context, id, organizationID uuid.UUID, from, to models.RequestStatus, query string, args ...any) (*models.PurchaseRequest, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var updated uuid.UUID

	err := r.DB.QueryRowContext(dbCtx, query, args...).Scan(&updated)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to move request to %s: %w", to, err)
		}

		var current models.RequestStatus

		err = r.DB.QueryRowContext(dbCtx, `
			SELECT pr.status FROM purchase_requests pr
			JOIN products p ON p.id = pr.product_id
			WHERE pr.id = $1 AND p.organization_id = $2`, id, organizationID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read request status: %w", err)
		}

		if current == from {
			return nil, fmt.Errorf("%w: %s", ErrConcurrentUpdate, id)
		}

		return nil, &models.TransitionError{From: current, To: to}
	}

	return r.GetByID(ctx, id)
}

// clientSKU derives the SKU of a client's copy of an admin product.
func clientSKU(adminSKU string, clientID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", adminSKU, clientID.String()[:8])
}
