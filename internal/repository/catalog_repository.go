package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tonmarket/internal/domain"
)

// CatalogRepositoryImpl implements the CatalogRepository interface
type CatalogRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) domain.CatalogRepository {
	return &CatalogRepositoryImpl{db: db}
}

const catalogColumns = `id, code, name, image, price, is_duo,
	COALESCE(collection, ''), COALESCE(model, ''), COALESCE(backdrop, ''),
	nft_type, created_at, updated_at`

// GetAll retrieves the full catalog ordered by id
func (r *CatalogRepositoryImpl) GetAll(ctx context.Context) ([]domain.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM nft_catalog ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query nft catalog: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		err := rows.Scan(
			&item.ID,
			&item.Code,
			&item.Name,
			&item.Image,
			&item.Price,
			&item.IsDuo,
			&item.Collection,
			&item.Model,
			&item.Backdrop,
			&item.NFTType,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog: %w", err)
	}

	return items, nil
}

// GetByCode retrieves one catalog entry by its unique code
func (r *CatalogRepositoryImpl) GetByCode(ctx context.Context, code string) (*domain.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM nft_catalog WHERE code = $1`

	item := &domain.CatalogItem{}
	err := r.db.QueryRow(ctx, query, code).Scan(
		&item.ID,
		&item.Code,
		&item.Name,
		&item.Image,
		&item.Price,
		&item.IsDuo,
		&item.Collection,
		&item.Model,
		&item.Backdrop,
		&item.NFTType,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog item %s: %w", code, err)
	}

	return item, nil
}
