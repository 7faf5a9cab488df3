package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSKU    = errors.New("product sku already exists")
)

const uniqueViolation = "23505"

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Product, error)
	ListClientUploaded(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error)
	ListTransferred(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error)
	ListActiveCatalog(ctx context.Context, organizationID uuid.UUID) ([]*models.Product, error)
	UpdateStockLevels(ctx context.Context, product *models.Product) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, name, sku, description, category, price, points, stock, reorder_level, reserved_stock,
	status, is_client_uploaded, created_by, client_id, organization_id,
	ci_initial_stock, ci_current_stock, ci_reorder_level, ci_last_updated, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p            models.Product
		reorderLevel sql.NullInt64
		clientID     uuid.NullUUID
		ciInitial    sql.NullInt64
		ciCurrent    sql.NullInt64
		ciReorder    sql.NullInt64
		ciUpdated    sql.NullTime
	)

	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Category, &p.Price, &p.Points, &p.Stock, &reorderLevel, &p.ReservedStock,
		&p.Status, &p.IsClientUploaded, &p.CreatedBy, &clientID, &p.OrganizationID,
		&ciInitial, &ciCurrent, &ciReorder, &ciUpdated, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if reorderLevel.Valid {
		p.ReorderLevel = &reorderLevel.Int64
	}

	if clientID.Valid {
		p.ClientID = &clientID.UUID
	}

	if ciCurrent.Valid {
		p.ClientInventory = &models.ClientInventory{
			InitialStock: ciInitial.Int64,
			CurrentStock: ciCurrent.Int64,
			ReorderLevel: ciReorder.Int64,
			LastUpdated:  ciUpdated.Time,
		}

		if !ciReorder.Valid {
			p.ClientInventory.ReorderLevel = models.DefaultReorderLevel
		}
	}

	return &p, nil
}

func clientInventoryArgs(ci *models.ClientInventory) (initial, current, reorder sql.NullInt64, updated sql.NullTime) {
	if ci == nil {
		return
	}

	return sql.NullInt64{Int64: ci.InitialStock, Valid: true},
		sql.NullInt64{Int64: ci.CurrentStock, Valid: true},
		sql.NullInt64{Int64: ci.ReorderLevel, Valid: true},
		sql.NullTime{Time: ci.LastUpdated, Valid: !ci.LastUpdated.IsZero()}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	ciInitial, ciCurrent, ciReorder, ciUpdated := clientInventoryArgs(product.ClientInventory)

	query := `
		INSERT INTO products (name, sku, description, category, price, points, stock, reorder_level, reserved_stock,
			status, is_client_uploaded, created_by, client_id, organization_id,
			ci_initial_stock, ci_current_stock, ci_reorder_level, ci_last_updated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.SKU, product.Description, product.Category, product.Price, product.Points,
		product.Stock, product.ReorderLevel, product.ReservedStock, product.Status, product.IsClientUploaded,
		product.CreatedBy, product.ClientID, product.OrganizationID,
		ciInitial, ciCurrent, ciReorder, ciUpdated,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, product.SKU)
		}

		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE created_by = $1 ORDER BY created_at`, creatorID)
}

func (r *productRepository) ListClientUploaded(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products
		WHERE client_id = $1 AND is_client_uploaded = TRUE
		ORDER BY created_at`, clientID)
}

// ListTransferred returns products a client received through approved requests.
func (r *productRepository) ListTransferred(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products
		WHERE client_id = $1 AND is_client_uploaded = FALSE AND ci_current_stock IS NOT NULL
		ORDER BY created_at`, clientID)
}

func (r *productRepository) ListActiveCatalog(ctx context.Context, organizationID uuid.UUID) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products
		WHERE organization_id = $1 AND client_id IS NULL AND status = 'active'
		ORDER BY created_at`, organizationID)
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return products, nil
}

func (r *productRepository) UpdateStockLevels(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	ciInitial, ciCurrent, ciReorder, ciUpdated := clientInventoryArgs(product.ClientInventory)

	query := `
		UPDATE products SET stock = $1, reorder_level = $2, reserved_stock = $3,
			ci_initial_stock = $4, ci_current_stock = $5, ci_reorder_level = $6, ci_last_updated = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.Stock, product.ReorderLevel, product.ReservedStock,
		ciInitial, ciCurrent, ciReorder, ciUpdated, product.ID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}

		return fmt.Errorf("failed to update stock levels: %w", err)
	}

	return nil
}

// AdjustStock applies delta to the product's effective stock figure and clamps
// the result at zero.
func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET
			stock = CASE WHEN ci_current_stock IS NULL THEN GREATEST(stock + $1, 0) ELSE stock END,
			ci_current_stock = CASE WHEN ci_current_stock IS NULL THEN NULL ELSE GREATEST(ci_current_stock + $1, 0) END,
			ci_last_updated = CASE WHEN ci_current_stock IS NULL THEN ci_last_updated ELSE NOW() END,
			updated_at = NOW()
		WHERE id = $2
		RETURNING ` + productColumns

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, delta, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	return product, nil
}
