package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tonmarket/internal/domain"
)

// ErrNoCopies is returned by DeleteOne when the user holds no matching copy.
var ErrNoCopies = errors.New("no owned copies to remove")

// OwnedNFTRepositoryImpl implements the OwnedNFTRepository interface
type OwnedNFTRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewOwnedNFTRepository creates a new OwnedNFTRepository
func NewOwnedNFTRepository(db *pgxpool.Pool) domain.OwnedNFTRepository {
	return &OwnedNFTRepositoryImpl{db: db}
}

const ownedColumns = `id, user_id, nft_code, title, COALESCE(subtitle, ''),
	COALESCE(description, ''), image, price, COALESCE(collection, ''),
	COALESCE(model, ''), COALESCE(backdrop, ''), is_duo, origin, acquired_at`

func scanOwned(row pgx.Row) (*domain.OwnedNFT, error) {
	n := &domain.OwnedNFT{}
	err := row.Scan(
		&n.RowID,
		&n.UserID,
		&n.Code,
		&n.Title,
		&n.Subtitle,
		&n.Description,
		&n.Image,
		&n.Price,
		&n.Collection,
		&n.Model,
		&n.Backdrop,
		&n.IsDuo,
		&n.Origin,
		&n.AcquiredAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Insert adds one copy; the returned row carries the assigned RowID
func (r *OwnedNFTRepositoryImpl) Insert(ctx context.Context, n domain.OwnedNFT) (*domain.OwnedNFT, error) {
	query := `
		INSERT INTO user_nfts (
			user_id, nft_code, title, subtitle, description, image, price,
			collection, model, backdrop, is_duo, origin
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + ownedColumns

	inserted, err := scanOwned(r.db.QueryRow(ctx, query,
		n.UserID,
		n.Code,
		n.Title,
		n.Subtitle,
		n.Description,
		n.Image,
		n.Price,
		n.Collection,
		n.Model,
		n.Backdrop,
		n.IsDuo,
		n.Origin,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert owned nft: %w", err)
	}

	return inserted, nil
}

// GetByUserID retrieves all copies a user holds, newest acquisition first
func (r *OwnedNFTRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]domain.OwnedNFT, error) {
	query := `SELECT ` + ownedColumns + ` FROM user_nfts WHERE user_id = $1 ORDER BY acquired_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned nfts: %w", err)
	}
	defer rows.Close()

	var owned []domain.OwnedNFT
	for rows.Next() {
		n, err := scanOwned(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan owned nft: %w", err)
		}
		owned = append(owned, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owned nfts: %w", err)
	}

	return owned, nil
}

// DeleteOne removes exactly one (user, code) row, lowest RowID first, and
// returns the removed row. FIFO over copies: the oldest-created row goes
// first so a partial duo sale is deterministic.
func (r *OwnedNFTRepositoryImpl) DeleteOne(ctx context.Context, userID int64, code string) (*domain.OwnedNFT, error) {
	query := `
		DELETE FROM user_nfts
		WHERE id = (
			SELECT id FROM user_nfts
			WHERE user_id = $1 AND nft_code = $2
			ORDER BY id ASC
			LIMIT 1
		)
		RETURNING ` + ownedColumns

	removed, err := scanOwned(r.db.QueryRow(ctx, query, userID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCopies
		}
		return nil, fmt.Errorf("failed to delete owned nft: %w", err)
	}

	return removed, nil
}

// Count returns how many copies of a code the user holds
func (r *OwnedNFTRepositoryImpl) Count(ctx context.Context, userID int64, code string) (int, error) {
	query := `SELECT COUNT(*) FROM user_nfts WHERE user_id = $1 AND nft_code = $2`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, code).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count owned copies: %w", err)
	}

	return count, nil
}

// OwnsAny reports whether the user holds at least one copy of a code
func (r *OwnedNFTRepositoryImpl) OwnsAny(ctx context.Context, userID int64, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_nfts WHERE user_id = $1 AND nft_code = $2)`

	var owns bool
	if err := r.db.QueryRow(ctx, query, userID, code).Scan(&owns); err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}

	return owns, nil
}
