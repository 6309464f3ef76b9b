package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tonmarket/internal/domain"
)

// ListingRepositoryImpl implements the ListingRepository interface
type ListingRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(db *pgxpool.Pool) domain.ListingRepository {
	return &ListingRepositoryImpl{db: db}
}

// Create inserts a listing with status "pending"
func (r *ListingRepositoryImpl) Create(ctx context.Context, l domain.Listing) (*domain.Listing, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query := `
		INSERT INTO nft_listings (id, seller_id, nft_code, nft_title, nft_image, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, seller_id, nft_code, nft_title, nft_image, price, status, created_at, updated_at
	`

	created := &domain.Listing{}
	err := r.db.QueryRow(ctx, query,
		l.ID,
		l.SellerID,
		l.NFTCode,
		l.NFTTitle,
		l.NFTImage,
		l.Price,
		domain.ListingPending,
	).Scan(
		&created.ID,
		&created.SellerID,
		&created.NFTCode,
		&created.NFTTitle,
		&created.NFTImage,
		&created.Price,
		&created.Status,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return created, nil
}

// GetBySellerID retrieves a user's listings, newest first
func (r *ListingRepositoryImpl) GetBySellerID(ctx context.Context, sellerID int64) ([]domain.Listing, error) {
	query := `
		SELECT id, seller_id, nft_code, nft_title, nft_image, price, status, created_at, updated_at
		FROM nft_listings
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		err := rows.Scan(
			&l.ID,
			&l.SellerID,
			&l.NFTCode,
			&l.NFTTitle,
			&l.NFTImage,
			&l.Price,
			&l.Status,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}
